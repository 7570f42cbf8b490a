// Package main provides the entry point for the onboarding wizard CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jonathan/onboarding-wizard/internal/config"
)

// rootOptions carries the resolved configuration and logger to subcommands.
type rootOptions struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "onboarding",
		Short: "Employee onboarding wizard",
		Long: `Validates and collects employee onboarding data in five steps:
personal info, job details, skills, emergency contact and review.

Run "onboarding serve" to expose the wizard over HTTP, or use the
validate and review commands to check form data offline.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(opts.configPath)
			if err != nil {
				return err
			}
			cfg.Verbose = cfg.Verbose || opts.verbose
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts.cfg = cfg

			// Initialize logger
			zcfg := zap.NewProductionConfig()
			if cfg.Verbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zcfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to JSON config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newServeCmd(opts),
		newValidateCmd(opts),
		newValidateLayoutCmd(opts),
		newReviewCmd(opts),
		newDepartmentsCmd(opts),
		newMigrateCmd(opts),
		newSubmissionsCmd(opts),
	)
	return cmd
}

// resolveConfig layers the config file over the environment over built-in defaults.
func resolveConfig(path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		fileCfg, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *fileCfg
	}
	cfg = cfg.MergeWithDefaults(config.FromEnv())
	return cfg.MergeWithDefaults(config.Defaults()), nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
