package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/carte/internal/cli/formatter"
	"github.com/alexanderramin/carte/internal/intake"
	"github.com/alexanderramin/carte/internal/llm"
	"github.com/alexanderramin/carte/internal/loadtest"
)

func newLoadtestCmd(app *App) *cobra.Command {
	var (
		scenario    string
		concurrency int
		total       int
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Measure model latency under concurrent interview or synthesis load",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sc, err := loadtest.ParseScenario(scenario)
			if err != nil {
				return err
			}
			client, err := app.NewLLM(ctx)
			if err != nil {
				return err
			}
			logger := app.logger()
			deps := loadtest.Deps{
				Chat:    llm.NewChatTransport(client, llm.TaskInterview),
				Synth:   intake.NewSynthesizer(client, logger),
				Backend: app.Backend,
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running %s: %d runs, concurrency %d\n", sc.Label(), total, concurrency)
			report, err := loadtest.Run(ctx, deps, loadtest.Options{
				Scenario:    sc,
				Concurrency: concurrency,
				Total:       total,
				Logger:      logger,
				Now:         app.now,
			})
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", outDir, err)
			}
			path := filepath.Join(outDir, loadtest.ResultFileName(app.now()))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			if err := loadtest.WriteCSV(f, report.Metrics); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			loadtest.Summarize(report.Metrics).Print(out)
			fmt.Fprintf(out, "%s %s\n", formatter.Dim("Results:"), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenario, "scenario", string(loadtest.ScenarioStream), "Scenario: stream or carte")
	cmd.Flags().IntVar(&concurrency, "concurrency", loadtest.DefaultConcurrency, "Runs in flight at once")
	cmd.Flags().IntVar(&total, "total", loadtest.DefaultTotal, "Total runs")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory for the results CSV")
	return cmd
}
