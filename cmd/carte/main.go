package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/alexanderramin/carte/internal/cli"
	"github.com/alexanderramin/carte/internal/config"
	"github.com/alexanderramin/carte/internal/db"
	"github.com/alexanderramin/carte/internal/llm"
	"github.com/alexanderramin/carte/internal/logging"
	"github.com/alexanderramin/carte/internal/repository"
	"github.com/alexanderramin/carte/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	// Keep log lines out of the terminal UI.
	logFile := cfg.LogFile
	if logFile == "" && interactive {
		logFile = filepath.Join(filepath.Dir(cfg.DBPath), "carte.log")
	}
	logger, err := logging.New(cfg.LogLevel, logFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	recordRepo := repository.NewSQLiteRecordRepo(database)
	profileRepo := repository.NewSQLiteProfileRepo(database)
	allowlistRepo := repository.NewSQLiteAllowlistRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewZapUseCaseObserver(logger)

	app := &cli.App{
		UserID:    cfg.UserID,
		Records:   service.NewRecordService(recordRepo, uow, service.WithRecordObserver(observer)),
		Profiles:  service.NewProfileService(profileRepo, observer),
		Export:    service.NewExportService(),
		Access:    service.NewAccessPolicy(cfg.AllowedDomains, allowlistRepo),
		Allowlist: allowlistRepo,
		Logger:    logger,
		HTTPAddr:  cfg.HTTPAddr,
		Backend:   fmt.Sprintf("%s/%s", cfg.LLM.Provider, cfg.LLM.ModelName()),
		IsInteractive: func() bool {
			return interactive && (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()))
		},
		NewLLM: func(ctx context.Context) (llm.LLMClient, error) {
			var obs llm.Observer = llm.NoopObserver{}
			if cfg.LLM.LogCalls {
				obs = llm.NewZapObserver(logger)
			}
			return llm.NewClient(ctx, cfg.LLM, obs)
		},
	}

	logger.Debug("starting", zap.String("db", cfg.DBPath), zap.String("backend", app.Backend))
	return cli.NewRootCmd(app).Execute()
}
