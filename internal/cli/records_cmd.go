package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/carte/internal/cli/formatter"
	"github.com/alexanderramin/carte/internal/repository"
	"github.com/alexanderramin/carte/internal/service"
)

func newRecordsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"r"},
		Short:   "Browse and manage saved cartes",
	}

	cmd.AddCommand(
		newRecordsListCmd(app),
		newRecordsShowCmd(app),
		newRecordsDeleteCmd(app),
		newRecordsClearCmd(app),
	)

	return cmd
}

func newRecordsListCmd(app *App) *cobra.Command {
	var sortFlag string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved cartes",
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := service.ParseSortOrder(sortFlag)
			if err != nil {
				return err
			}
			records, err := app.Records.List(cmd.Context(), app.UserID, order)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecordList(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&sortFlag, "sort", "default", "Sort order: default, automation or time")
	return cmd
}

func newRecordsShowCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <workId>",
		Short: "Show one carte",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sr, err := app.Records.Get(cmd.Context(), app.UserID, args[0])
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("carte %q not found", args[0])
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw || !app.interactive() {
				fmt.Fprint(out, formatter.RecordMarkdown(&sr.Record))
				return nil
			}
			fmt.Fprint(out, formatter.RenderRecord(&sr.Record, 100))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "markdown", false, "Print markdown instead of rendering it")
	return cmd
}

func newRecordsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <workId>",
		Aliases: []string{"rm"},
		Short:   "Delete one carte",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.Records.Delete(cmd.Context(), app.UserID, args[0])
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("carte %q not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newRecordsClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved carte",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to clear without --yes")
				}
				if err := confirmForm("Delete all cartes?", &yes).Run(); err != nil {
					return err
				}
				if !yes {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			n, err := app.Records.DeleteAll(cmd.Context(), app.UserID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d carte(s)\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
