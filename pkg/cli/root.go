// Package cli implements the lakeload command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"lakeload/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = printJSON(os.Stdout, map[string]interface{}{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		envFile string
		profile string
		output  string
	)

	rootCmd := &cobra.Command{
		Use:           "lakeload",
		Short:         "Provision, upload, and apply DDL against a lakehouse volume",
		Long:          "lakeload runs a three-stage load workflow: ensure the target schema and managed volume exist, upload matching local data files into the volume, then apply the warehouse DDL script statement by statement.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			// Load config from profile if flags/env not set
			cfg, err := LoadUserConfig()
			if err != nil {
				// Config file is optional
				cfg = &UserConfig{
					CurrentProfile: "default",
					Profiles:       map[string]Profile{},
				}
			}
			p := cfg.ActiveProfile(profile)

			if !cmd.Flags().Changed("output") && p.Output != "" {
				output = p.Output
			}

			// Precedence below flags: env > env file > profile.
			if envFile != "" {
				if err := config.LoadDotEnv(envFile); err != nil {
					return fmt.Errorf("load env file: %w", err)
				}
			}
			p.ApplyToEnv()
			return nil
		},
	}

	// Accept underscore flag spellings (--data_dir) alongside the dashed ones.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file to load (missing file is ignored)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")

	rootCmd.AddCommand(
		newRunCmd(),
		newProvisionCmd(),
		newUploadCmd(),
		newDDLCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// targetFlags are the per-command overrides for the workflow target.
type targetFlags struct {
	catalog     string
	schema      string
	volume      string
	dataDir     string
	filePattern string
	ddlFile     string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "Target catalog")
	cmd.Flags().StringVar(&f.schema, "schema", "", "Target schema")
	cmd.Flags().StringVar(&f.volume, "volume", "", "Target volume")
	cmd.Flags().StringVar(&f.dataDir, "data-dir", "", "Directory scanned for data files")
	cmd.Flags().StringVar(&f.filePattern, "pattern", "", "Glob pattern within the data directory")
	cmd.Flags().StringVar(&f.ddlFile, "ddl-file", "", "DDL script to apply")
}

func (f *targetFlags) apply(cfg *config.Config) {
	if f.catalog != "" {
		cfg.Catalog = f.catalog
	}
	if f.schema != "" {
		cfg.Schema = f.schema
	}
	if f.volume != "" {
		cfg.Volume = f.volume
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.filePattern != "" {
		cfg.FilePattern = f.filePattern
	}
	if f.ddlFile != "" {
		cfg.DDLFile = f.ddlFile
	}
}

// loadConfig builds the runtime config (flag > env > profile > default) and
// the logger, and logs any warnings collected during loading.
func loadConfig(flags *targetFlags) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, err
	}
	if flags != nil {
		flags.apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	return cfg, logger, nil
}
