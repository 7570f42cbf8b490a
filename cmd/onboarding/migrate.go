package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/onboarding-wizard/internal/db"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL migrations",
		Long: `Apply the embedded PostgreSQL migrations to DATABASE_URL.

With --seed the department directory tables are replaced with the
contents of the directory file (or the built-in directory).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfg.DatabaseURL == "" {
				return fmt.Errorf("migrate requires DATABASE_URL or database_url in the config file")
			}
			ctx := cmd.Context()

			database, err := db.Connect(ctx, opts.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer database.Close()

			applied, err := database.Migrate(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "Database is up to date")
			}
			for _, name := range applied {
				fmt.Fprintf(out, "Applied %s\n", name)
			}

			if !seed {
				return nil
			}
			provider, err := loadDirectory(opts.cfg)
			if err != nil {
				return err
			}
			entries := provider.Entries()
			if err := database.SeedDirectory(ctx, entries); err != nil {
				return err
			}
			opts.logger.Info("directory seeded", zap.Int("departments", len(entries)))
			fmt.Fprintf(out, "Seeded %d departments\n", len(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Replace the directory tables with the directory file")
	return cmd
}
