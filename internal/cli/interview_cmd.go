package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/carte/internal/cli/formatter"
	"github.com/alexanderramin/carte/internal/intake"
	"github.com/alexanderramin/carte/internal/llm"
	"github.com/alexanderramin/carte/internal/service"
)

var errNoProfile = errors.New("no profile set; run `carte profile set` first")

func newInterviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "interview",
		Aliases: []string{"i"},
		Short:   "Interview about one workflow and save its carte",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := checkAccess(ctx, app); err != nil {
				return err
			}

			client, err := app.NewLLM(ctx)
			if err != nil {
				return err
			}
			logger := app.logger()
			model := newInterviewModel(ctx,
				llm.NewChatTransport(client, llm.TaskInterview),
				intake.NewSynthesizer(client, logger),
				app.Records, app.UserID,
				intake.WithLogger(logger),
			)

			final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			m := final.(*interviewModel)
			if m.err != nil {
				return fmt.Errorf("saving carte: %w", m.err)
			}
			out := cmd.OutOrStdout()
			if m.saved == nil {
				fmt.Fprintln(out, formatter.Dim("Interview ended without a carte."))
				return nil
			}
			fmt.Fprint(out, formatter.RenderRecord(&m.saved.Record, max(m.width, 80)))
			fmt.Fprintf(out, "Saved carte %s\n", m.saved.Record.WorkID)
			return nil
		},
	}
}

// checkAccess requires a complete profile whose email the access policy
// admits.
func checkAccess(ctx context.Context, app *App) error {
	p, ok, err := loadProfile(ctx, app)
	if err != nil {
		return err
	}
	if !ok {
		return errNoProfile
	}
	if err := service.ValidateProfile(p); err != nil {
		return err
	}
	if app.Access == nil {
		return nil
	}
	return app.Access.Check(ctx, p.Email)
}
