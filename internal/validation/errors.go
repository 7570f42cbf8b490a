// Package validation provides the per-step validators, the review gate and the
// cross-step derivation rules of the onboarding wizard.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

// ErrNotConfirmed is returned by the review gate when the confirmation flag is not set.
var ErrNotConfirmed = errors.New("review must be confirmed before submitting")

// ErrUnknownDepartment is returned by reference lookups for departments the
// directory does not list. Validators report it as a field error.
var ErrUnknownDepartment = errors.New("unknown department")

// ErrNoSchema is returned when a field schema is requested for the Review step.
var ErrNoSchema = errors.New("review step has no field schema")

// LookupError represents a failure of the reference data provider
type LookupError struct {
	Message string
	Cause   error
}

func (e *LookupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("reference lookup error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("reference lookup error: %s", e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Cause
}

// IncompleteError lists the data steps that have no stored record
type IncompleteError struct {
	Missing []types.StepIdentity
}

func (e *IncompleteError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, step := range e.Missing {
		names = append(names, step.Slug())
	}
	return fmt.Sprintf("form incomplete: missing %s", strings.Join(names, ", "))
}
