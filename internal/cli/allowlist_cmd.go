package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/carte/internal/cli/formatter"
	"github.com/alexanderramin/carte/internal/repository"
)

func newAllowlistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allowlist",
		Short: "Manage emails admitted outside the allowed domains",
	}

	cmd.AddCommand(
		newAllowlistAddCmd(app),
		newAllowlistRemoveCmd(app),
		newAllowlistListCmd(app),
	)

	return cmd
}

func newAllowlistAddCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Admit an email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Allowlist.Add(cmd.Context(), args[0], note); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Allowed %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Why this address is allowed")
	return cmd
}

func newAllowlistRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <email>",
		Aliases: []string{"rm"},
		Short:   "Revoke an email address",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.Allowlist.Remove(cmd.Context(), args[0])
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s is not on the allowlist", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newAllowlistListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List allowed email addresses",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Allowlist.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, formatter.Dim("Allowlist is empty."))
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Email, e.Note, e.CreatedAt})
			}
			fmt.Fprint(out, formatter.RenderTable([]string{"EMAIL", "NOTE", "ADDED"}, rows))
			return nil
		},
	}
}
