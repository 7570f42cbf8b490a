package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/onboarding-wizard/internal/observability"
	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/types"
	"github.com/jonathan/onboarding-wizard/internal/validation"
)

func newReviewCmd(opts *rootOptions) *cobra.Command {
	var (
		dataFile string
		outFile  string
		today    string
		confirm  bool
		record   bool
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review stored form data and build the submission payload",
		Long: `Print every stored step, re-run each record through its validator and,
with --confirm, emit the submission payload as JSON.

With --record the payload is also appended to the submission log of the
configured storage backend.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now, err := clock(today)
			if err != nil {
				return err
			}
			data, err := readFormData(dataFile)
			if err != nil {
				return err
			}
			provider, err := loadDirectory(opts.cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printer := observability.NewPrinter(out)
			printer.PrintReview(&data)

			err = validation.Revalidate(data, lookups(cmd.Context(), provider, now, data))
			var verr *rules.ValidationError
			if errors.As(err, &verr) {
				printer.PrintFieldErrors(verr)
				return errValidationFailed
			}
			if err != nil {
				return err
			}

			if !confirm {
				fmt.Fprintln(out, "Pass --confirm to build the submission payload")
				return nil
			}
			payload, err := validation.Review(true, data, now)
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode payload: %w", err)
			}
			if outFile != "" {
				if err := os.WriteFile(outFile, encoded, 0644); err != nil {
					return fmt.Errorf("failed to write payload: %w", err)
				}
				fmt.Fprintf(out, "Payload written to %s\n", outFile)
			} else {
				fmt.Fprintln(out, string(encoded))
			}

			if !record {
				return nil
			}
			st, _, err := openStore(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			sub := types.Submission{
				ID:          uuid.New(),
				SessionID:   uuid.Nil,
				Payload:     *payload,
				SubmittedAt: now.UTC(),
			}
			if err := st.SaveSubmission(cmd.Context(), sub); err != nil {
				return err
			}
			opts.logger.Info("submission recorded", zap.String("id", sub.ID.String()), zap.String("storage", opts.cfg.Storage))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "Path to the stored form data JSON (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the payload to a file instead of stdout")
	cmd.Flags().StringVar(&today, "today", "", "Evaluate date rules as of YYYY-MM-DD")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the review and build the payload")
	cmd.Flags().BoolVar(&record, "record", false, "Append the payload to the submission log")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
