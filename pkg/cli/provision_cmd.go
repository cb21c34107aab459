package cli

import (
	"os"

	"github.com/spf13/cobra"

	"lakeload/internal/provision"
	"lakeload/internal/warehouse"
)

func newProvisionCmd() *cobra.Command {
	flags := &targetFlags{}

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Ensure the target schema and managed volume exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session, err := warehouse.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer session.Close() //nolint:errcheck

			results := provision.New(session, logger).EnsureAll(ctx, cfg.Catalog, cfg.Schema, cfg.Volume)

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, results)
			}
			printProvisionTable(os.Stdout, results)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
