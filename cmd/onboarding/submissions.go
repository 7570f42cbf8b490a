package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/onboarding-wizard/internal/observability"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

func newSubmissionsCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List recent submissions from the configured storage backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			query := types.ListSubmissionsQuery{Limit: limit}
			if err := query.Validate(); err != nil {
				return err
			}

			st, _, err := openStore(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			subs, err := st.ListSubmissions(cmd.Context(), query.Limit)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintSubmissions(subs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of submissions to list")
	return cmd
}
