package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/types"
	"github.com/stretchr/testify/require"
)

// fixedNow is a Sunday.
var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func personalInput() rules.Input {
	return rules.Input{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"phone":    "+1-555-123-4567",
		"dob":      "1990-12-10",
	}
}

func jobInput() rules.Input {
	return rules.Input{
		"department":    "Engineering",
		"positionTitle": "Backend Engineer",
		"startDate":     "2025-07-01",
		"jobType":       "Full-time",
		"salary":        float64(120000),
		"manager":       "Grace Hopper",
	}
}

func skillsInput() rules.Input {
	return rules.Input{
		"skills":           []any{"Go", "SQL", "Kubernetes"},
		"experiences":      map[string]any{"Go": "5 years"},
		"preferredHours":   map[string]any{"start": "09:00", "end": "17:00"},
		"remotePreference": float64(40),
	}
}

func emergencyInput() rules.Input {
	return rules.Input{
		"contactName":  "Charles Babbage",
		"relationship": "Friend",
		"phone":        "+44-207-946-0958",
	}
}

func engineeringManagers(dept types.Department) ([]types.Manager, error) {
	if dept != types.DepartmentEngineering {
		return nil, nil
	}
	return []types.Manager{{ID: "m1", Name: "Grace Hopper"}, {ID: "m2", Name: "Linus Torvalds"}}, nil
}

func engineeringSkills(dept types.Department) ([]string, error) {
	if dept != types.DepartmentEngineering {
		return []string{"SEO"}, nil
	}
	return []string{"Go", "SQL", "Kubernetes", "React"}, nil
}

// fieldErrors asserts err is a validation error and returns it.
func fieldErrors(t *testing.T, err error) *rules.ValidationError {
	t.Helper()
	require.Error(t, err)
	var ve *rules.ValidationError
	require.True(t, errors.As(err, &ve), "expected *rules.ValidationError, got %T", err)
	return ve
}
