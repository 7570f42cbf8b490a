// Package directory provides the reference data boundary of the wizard: the
// department list, per-department skill options and manager candidates.
package directory

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/onboarding-wizard/internal/types"
	"github.com/jonathan/onboarding-wizard/internal/validation"
)

// ErrUnknownDepartment is returned for departments the provider does not know.
var ErrUnknownDepartment = validation.ErrUnknownDepartment

// Provider supplies reference data by department.
type Provider interface {
	Departments(ctx context.Context) ([]types.Department, error)
	SkillsFor(ctx context.Context, department types.Department) ([]string, error)
	ManagersFor(ctx context.Context, department types.Department) ([]types.Manager, error)
}

// Overview loads the skills and managers of department concurrently.
func Overview(ctx context.Context, p Provider, department types.Department) (*types.DepartmentOverview, error) {
	overview := &types.DepartmentOverview{Department: department}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		skills, err := p.SkillsFor(gctx, department)
		if err != nil {
			return fmt.Errorf("failed to load skills: %w", err)
		}
		overview.Skills = skills
		return nil
	})
	g.Go(func() error {
		managers, err := p.ManagersFor(gctx, department)
		if err != nil {
			return fmt.Errorf("failed to load managers: %w", err)
		}
		overview.Managers = managers
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

// SearchManagers returns the candidate set of department narrowed by a
// case-insensitive name search. An empty search returns the whole set.
func SearchManagers(ctx context.Context, p Provider, department types.Department, search string) ([]types.Manager, error) {
	managers, err := p.ManagersFor(ctx, department)
	if err != nil {
		return nil, err
	}
	return validation.SearchManagers(managers, search), nil
}
