package cli

import (
	"os"

	"github.com/spf13/cobra"

	"lakeload/internal/runner"
	"lakeload/internal/warehouse"
)

func newDDLCmd() *cobra.Command {
	flags := &targetFlags{}

	cmd := &cobra.Command{
		Use:   "ddl [file]",
		Short: "Apply a DDL script statement by statement",
		Long:  "Splits the script on semicolons, drops empty and comment-only fragments, and executes each surviving statement in order. A failed statement is logged and the rest still run.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.DDLFile = args[0]
			}

			ctx := cmd.Context()
			session, err := warehouse.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer session.Close() //nolint:errcheck

			results, err := runner.New(session, logger).RunFile(ctx, cfg.DDLFile)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, results)
			}
			printStatementTable(os.Stdout, results)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
