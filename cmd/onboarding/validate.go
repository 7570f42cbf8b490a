package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/onboarding-wizard/internal/directory"
	"github.com/jonathan/onboarding-wizard/internal/observability"
	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/schemas"
	"github.com/jonathan/onboarding-wizard/internal/types"
	"github.com/jonathan/onboarding-wizard/internal/validation"
)

// errValidationFailed is returned once field errors have been printed.
var errValidationFailed = errors.New("validation failed")

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var (
		step      string
		inputFile string
		dataFile  string
		today     string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the raw input of one wizard step",
		Long: `Validate a JSON object of raw field values against the rules of one step.

The step may be given as a number (2), a layout key (step2) or a slug
(job-details). Skills and emergency rules depend on earlier steps; pass
the stored form data with --data to supply them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := types.ParseStep(step)
			if err != nil {
				return err
			}
			now, err := clock(today)
			if err != nil {
				return err
			}

			var in rules.Input
			if err := readJSON(inputFile, &in); err != nil {
				return err
			}
			var data types.AllFormData
			if dataFile != "" {
				if data, err = readFormData(dataFile); err != nil {
					return err
				}
			}

			provider, err := loadDirectory(opts.cfg)
			if err != nil {
				return err
			}

			opts.logger.Debug("validating step", zap.String("step", identity.Slug()), zap.String("input", inputFile))
			record, err := validation.ValidateStep(identity, validation.ApplyDerivations(identity, in), lookups(cmd.Context(), provider, now, data))
			printer := observability.NewPrinter(cmd.OutOrStdout())

			var verr *rules.ValidationError
			if errors.As(err, &verr) {
				printer.PrintFieldErrors(verr)
				return errValidationFailed
			}
			if err != nil {
				return err
			}

			printRecord(printer, record)
			return nil
		},
	}

	cmd.Flags().StringVarP(&step, "step", "s", "", "Step to validate (1-4, stepN or slug)")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Path to the raw input JSON (required)")
	cmd.Flags().StringVar(&dataFile, "data", "", "Path to stored form data used by cross-step rules")
	cmd.Flags().StringVar(&today, "today", "", "Evaluate date rules as of YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("step")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newValidateLayoutCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate-layout",
		Short: "Check a stored form data file against the persisted layout schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.logger.Debug("validating layout", zap.String("file", file))
			if err := schemas.ValidateFormDataFile(file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s matches the form data layout\n", file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the form data JSON (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// lookups builds validation dependencies backed by provider.
func lookups(ctx context.Context, provider directory.Provider, now time.Time, data types.AllFormData) validation.Deps {
	return validation.Deps{
		Now:  now,
		Data: data,
		Managers: func(d types.Department) ([]types.Manager, error) {
			return provider.ManagersFor(ctx, d)
		},
		Skills: func(d types.Department) ([]string, error) {
			return provider.SkillsFor(ctx, d)
		},
	}
}

// clock returns today's date at noon UTC, or the given date when set.
func clock(today string) (time.Time, error) {
	if today == "" {
		return time.Now().UTC(), nil
	}
	d, err := types.ParseDate(today)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today: %w", err)
	}
	return d.Add(12 * time.Hour), nil
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// readFormData loads a persisted form data file after checking its layout.
func readFormData(path string) (types.AllFormData, error) {
	var data types.AllFormData
	if err := schemas.ValidateFormDataFile(path); err != nil {
		return data, err
	}
	if err := readJSON(path, &data); err != nil {
		return data, err
	}
	return data, nil
}

func printRecord(p *observability.Printer, record types.Record) {
	switch r := record.(type) {
	case *types.PersonalInfo:
		p.PrintPersonalInfo(r)
	case *types.JobDetails:
		p.PrintJobDetails(r)
	case *types.Skills:
		p.PrintSkills(r)
	case *types.Emergency:
		p.PrintEmergency(r)
	}
}
