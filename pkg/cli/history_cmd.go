package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lakeload/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent workflow runs from the history ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(nil)
			if err != nil {
				return err
			}
			if cfg.HistoryDBPath == "" {
				return fmt.Errorf("history ledger is disabled (HISTORY_DB_PATH is empty)")
			}

			repo, err := history.Open(cfg.HistoryDBPath)
			if err != nil {
				return err
			}
			defer repo.Close() //nolint:errcheck

			runs, err := repo.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, runs)
			}
			tw := newTable(os.Stdout)
			fmt.Fprintln(tw, "RUN\tSTARTED\tOUTCOME\tUPLOADS\tSTATEMENTS\tWARNINGS")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
					r.ID, r.StartedAt.Format(time.RFC3339), r.Outcome, r.Uploads, r.Statements, r.Warnings)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}
