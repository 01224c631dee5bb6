package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/carte/internal/cli/formatter"
	"github.com/alexanderramin/carte/internal/domain"
	"github.com/alexanderramin/carte/internal/repository"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or set the interviewee profile",
	}

	cmd.AddCommand(
		newProfileShowCmd(app),
		newProfileSetCmd(app),
	)

	return cmd
}

// loadProfile returns the stored profile, or an empty one for the current
// user when none exists.
func loadProfile(ctx context.Context, app *App) (*domain.UserProfile, bool, error) {
	p, err := app.Profiles.Get(ctx, app.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.UserProfile{UserID: app.UserID}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok, err := loadProfile(cmd.Context(), app)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, formatter.Dim("No profile set. Run `carte profile set`."))
				return nil
			}
			fmt.Fprint(out, formatter.RenderTable(
				[]string{"FIELD", "VALUE"},
				[][]string{
					{"User", p.UserID},
					{"Name", p.FullName},
					{"Department", p.Department},
					{"Email", p.Email},
				},
			))
			return nil
		},
	}
}

func newProfileSetCmd(app *App) *cobra.Command {
	var name, department, email string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, _, err := loadProfile(ctx, app)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				p.FullName = name
			}
			if flags.Changed("department") {
				p.Department = department
			}
			if flags.Changed("email") {
				p.Email = email
			}
			if !anyChanged(flags, "name", "department", "email") && app.interactive() {
				if err := profileForm(p).Run(); err != nil {
					return err
				}
			}

			if err := app.Profiles.Set(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile for %s <%s>\n", p.FullName, p.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&department, "department", "", "Department")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

func anyChanged(flags *pflag.FlagSet, names ...string) bool {
	for _, n := range names {
		if flags.Changed(n) {
			return true
		}
	}
	return false
}
