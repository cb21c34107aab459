package cli

import (
	"os"

	"github.com/spf13/cobra"

	"lakeload/internal/store"
	"lakeload/internal/upload"
)

func newUploadCmd() *cobra.Command {
	flags := &targetFlags{}

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload matching data files into the volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := store.New(ctx, cfg)
			if err != nil {
				return err
			}

			results, err := upload.New(st, logger).UploadAll(
				ctx, cfg.DataDir, cfg.FilePattern, cfg.Catalog, cfg.Schema, cfg.Volume)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, results)
			}
			if len(results) == 0 {
				logger.Warn("no files matched", "dir", cfg.DataDir, "pattern", cfg.FilePattern)
				return nil
			}
			printUploadTable(os.Stdout, results)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
