package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

// Entry is the reference data of one department.
type Entry struct {
	Department types.Department `yaml:"name"`
	Skills     []string         `yaml:"skills"`
	Managers   []types.Manager  `yaml:"managers"`
}

// Static is an in-memory Provider. It is safe for concurrent use.
type Static struct {
	mu      sync.RWMutex
	order   []types.Department
	entries map[types.Department]Entry
}

// NewStatic builds a provider from entries, keeping their order.
func NewStatic(entries []Entry) (*Static, error) {
	s := &Static{entries: make(map[types.Department]Entry, len(entries))}
	for _, e := range entries {
		if !e.Department.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, e.Department)
		}
		if _, dup := s.entries[e.Department]; dup {
			return nil, fmt.Errorf("duplicate department %q", e.Department)
		}
		managers := make([]types.Manager, len(e.Managers))
		for i, m := range e.Managers {
			if m.ID == "" || m.Name == "" {
				return nil, fmt.Errorf("department %s: manager %d needs an id and a name", e.Department, i+1)
			}
			m.Department = e.Department
			managers[i] = m
		}
		e.Managers = managers
		e.Skills = append([]string(nil), e.Skills...)
		s.order = append(s.order, e.Department)
		s.entries[e.Department] = e
	}
	return s, nil
}

// Default returns the built-in mock directory.
func Default() *Static {
	s, err := NewStatic(DefaultEntries())
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultEntries is the built-in mock data.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Department: types.DepartmentEngineering,
			Skills:     []string{"JavaScript", "TypeScript", "React", "Node.js", "Go", "Python", "SQL", "Docker", "Kubernetes", "AWS"},
			Managers: []types.Manager{
				{ID: "m1", Name: "Alice Johnson"},
				{ID: "m2", Name: "Brian Smith"},
				{ID: "m3", Name: "Chen Wei"},
			},
		},
		{
			Department: types.DepartmentMarketing,
			Skills:     []string{"SEO", "Content Writing", "Social Media", "Email Campaigns", "Analytics", "Branding"},
			Managers: []types.Manager{
				{ID: "m4", Name: "Diana Prince"},
				{ID: "m5", Name: "Ethan Brown"},
			},
		},
		{
			Department: types.DepartmentSales,
			Skills:     []string{"Negotiation", "CRM", "Lead Generation", "Cold Calling", "Account Management"},
			Managers: []types.Manager{
				{ID: "m6", Name: "Fiona Garcia"},
				{ID: "m7", Name: "George Miller"},
			},
		},
		{
			Department: types.DepartmentHR,
			Skills:     []string{"Recruiting", "Onboarding", "Payroll", "Employee Relations", "Compliance"},
			Managers: []types.Manager{
				{ID: "m8", Name: "Hannah Lee"},
			},
		},
		{
			Department: types.DepartmentFinance,
			Skills:     []string{"Accounting", "Budgeting", "Forecasting", "Excel", "Auditing", "Tax"},
			Managers: []types.Manager{
				{ID: "m9", Name: "Ian Wright"},
				{ID: "m10", Name: "Julia Roberts"},
			},
		},
	}
}

// Entries returns a copy of the directory contents in order.
func (s *Static) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.order))
	for _, d := range s.order {
		e := s.entries[d]
		out = append(out, Entry{
			Department: e.Department,
			Skills:     append([]string(nil), e.Skills...),
			Managers:   append([]types.Manager(nil), e.Managers...),
		})
	}
	return out
}

// SetManagers replaces the candidate set of department.
func (s *Static) SetManagers(department types.Department, managers []types.Manager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[department]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}
	e.Managers = make([]types.Manager, len(managers))
	for i, m := range managers {
		m.Department = department
		e.Managers[i] = m
	}
	s.entries[department] = e
	return nil
}

// Departments implements Provider.
func (s *Static) Departments(context.Context) ([]types.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Department(nil), s.order...), nil
}

// SkillsFor implements Provider.
func (s *Static) SkillsFor(_ context.Context, department types.Department) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[department]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}
	return append([]string(nil), e.Skills...), nil
}

// ManagersFor implements Provider.
func (s *Static) ManagersFor(_ context.Context, department types.Department) ([]types.Manager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[department]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}
	return append([]types.Manager(nil), e.Managers...), nil
}
