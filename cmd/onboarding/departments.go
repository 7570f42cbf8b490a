package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/onboarding-wizard/internal/directory"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

func newDepartmentsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "departments",
		Short: "List the departments of the reference directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider, err := loadDirectory(opts.cfg)
			if err != nil {
				return err
			}
			depts, err := provider.Departments(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range depts {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}

	cmd.AddCommand(newDepartmentsShowCmd(opts), newDepartmentsExportCmd(opts))
	return cmd
}

func newDepartmentsShowCmd(opts *rootOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "show <department>",
		Short: "Show the skill options and manager candidates of a department",
		Long:  "Show the skill options and manager candidates of a department.\n\nKnown departments: " + departmentNames(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := loadDirectory(opts.cfg)
			if err != nil {
				return err
			}
			dept := types.Department(args[0])

			overview, err := directory.Overview(cmd.Context(), provider, dept)
			if err != nil {
				return err
			}
			if search != "" {
				if overview.Managers, err = directory.SearchManagers(cmd.Context(), provider, dept, search); err != nil {
					return err
				}
			}

			encoded, err := json.MarshalIndent(overview, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode overview: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "q", "", "Narrow managers by name")
	return cmd
}

func newDepartmentsExportCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the directory as a YAML seed file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider, err := loadDirectory(opts.cfg)
			if err != nil {
				return err
			}
			if err := directory.WriteFile(provider.Entries(), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d departments)\n", out, len(provider.Entries()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// departmentNames joins names for flag help.
func departmentNames() string {
	names := make([]string, len(types.Departments))
	for i, d := range types.Departments {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}
