package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past planning runs",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "run-history database path")

	cmd.AddCommand(
		newHistoryListCmd(app, &dbPath),
		newHistoryShowCmd(app, &dbPath),
	)
	return cmd
}

func newHistoryListCmd(app *App, dbPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past runs, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, closeStore, err := app.OpenStore(*dbPath)
			if err != nil {
				return fmt.Errorf("opening run history: %w", err)
			}
			defer closeStore()

			runs, err := hist.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(app.Out, "no runs recorded")
				return nil
			}

			for _, r := range runs {
				fmt.Fprintf(app.Out, "%s  %-20s %s..%s  placed=%d rejected=%d  %s\n",
					r.GeneratedAt.Format(time.RFC3339), r.SprintName,
					r.SprintStart, r.SprintEnd, r.Placed, r.Rejected, r.ID)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum runs to list (0 for all)")
	return cmd
}

func newHistoryShowCmd(app *App, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the markdown report of a past run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, closeStore, err := app.OpenStore(*dbPath)
			if err != nil {
				return fmt.Errorf("opening run history: %w", err)
			}
			defer closeStore()

			rep, err := hist.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(app.Out, rep.Markdown())
			return err
		},
	}
}
