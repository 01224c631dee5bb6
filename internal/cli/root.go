package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexanderramin/carte/internal/llm"
	"github.com/alexanderramin/carte/internal/repository"
	"github.com/alexanderramin/carte/internal/service"
)

// App holds references to all services used by CLI commands.
type App struct {
	UserID string

	Records   service.RecordService
	Profiles  service.ProfileService
	Export    service.ExportService
	Access    *service.AccessPolicy
	Allowlist repository.AllowlistRepo

	Logger   *zap.Logger
	HTTPAddr string

	// NewLLM opens the model client on first use so commands that never
	// talk to a model work without credentials.
	NewLLM  func(ctx context.Context) (llm.LLMClient, error)
	Backend string

	// IsInteractive reports whether huh forms may be shown.
	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// NewRootCmd creates the top-level "carte" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "carte",
		Short:         "Interview-driven business inventory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newInterviewCmd(app),
		newRecordsCmd(app),
		newDashboardCmd(app),
		newExportCmd(app),
		newProfileCmd(app),
		newAllowlistCmd(app),
		newServeCmd(app),
		newLoadtestCmd(app),
	)

	return root
}
