package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lakeload/internal/config"
	"lakeload/internal/history"
	"lakeload/internal/store"
	"lakeload/internal/warehouse"
	"lakeload/internal/workflow"
)

func newRunCmd() *cobra.Command {
	flags := &targetFlags{}
	var applyDDLAlways bool
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full workflow: provision, upload, apply DDL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("apply-ddl-always") {
				cfg.ApplyDDLAlways = applyDDLAlways
			}
			if noHistory {
				cfg.HistoryDBPath = ""
			}

			ctx := cmd.Context()

			session, err := warehouse.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer session.Close() //nolint:errcheck

			st, err := store.New(ctx, cfg)
			if err != nil {
				return err
			}

			rec := openRecorder(cfg, logger)
			if rec != nil {
				defer rec.Close() //nolint:errcheck
			}

			report, err := workflow.New(cfg, session, st, recorder(rec), logger).Run(ctx)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, report)
			}
			printReport(os.Stdout, report)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&applyDDLAlways, "apply-ddl-always", false, "Apply the DDL even when no files were uploaded")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording the run to the history ledger")

	return cmd
}

// openRecorder opens the history ledger when configured. Ledger problems
// are warnings; the run proceeds without history.
func openRecorder(cfg *config.Config, logger *slog.Logger) *history.Repo {
	if cfg.HistoryDBPath == "" {
		return nil
	}
	rec, err := history.Open(cfg.HistoryDBPath)
	if err != nil {
		logger.Warn("failed to open history ledger", "path", cfg.HistoryDBPath, "error", err)
		return nil
	}
	return rec
}

// recorder converts a possibly-nil *history.Repo into a workflow.Recorder.
// A plain nil-pointer assignment would produce a non-nil interface.
func recorder(r *history.Repo) workflow.Recorder {
	if r == nil {
		return nil
	}
	return r
}
