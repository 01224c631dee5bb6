package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/carte/internal/httpapi"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = app.HTTPAddr
			}
			logger := app.logger()
			h := httpapi.NewRecordHandler(app.UserID, app.Records, app.Profiles, app.Export, logger)
			return httpapi.Serve(ctx, addr, httpapi.NewRouter(h, logger), logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from CARTE_HTTP_ADDR)")
	return cmd
}
