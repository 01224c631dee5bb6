package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/carte/internal/cli/formatter"
	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/repository"
	"github.com/alexanderramin/carte/internal/service"
)

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show workload, savings and priority breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Records.List(cmd.Context(), app.UserID, service.SortDefault)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDashboard(service.Summarize(records)))
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all cartes as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			records, err := app.Records.List(ctx, app.UserID, service.SortDefault)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("nothing to export")
			}

			profile, err := app.Profiles.Get(ctx, app.UserID)
			if errors.Is(err, repository.ErrNotFound) {
				profile = &domain.UserProfile{UserID: app.UserID}
			} else if err != nil {
				return err
			}

			if out == "" {
				out = app.Export.DefaultFileName(app.now())
			}
			if out == "-" {
				return app.Export.WriteCSV(cmd.OutOrStdout(), profile, records)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := app.Export.WriteCSV(f, profile, records); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d carte(s) to %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (\"-\" for stdout)")
	return cmd
}
