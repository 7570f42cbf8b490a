package wizard

import (
	"errors"
	"fmt"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

// ErrSubmissionInFlight is returned when a submission is already being transmitted.
// Submits and mutations are rejected until it completes.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// StepOrderError is returned when input is committed for a step other than the current one
type StepOrderError struct {
	Current   types.StepIdentity
	Requested types.StepIdentity
}

func (e *StepOrderError) Error() string {
	return fmt.Sprintf("cannot commit step %s while on step %s", e.Requested, e.Current)
}

// SubmissionError represents a failure of the submission transport.
// The wizard state is left untouched.
type SubmissionError struct {
	Message string
	Cause   error
}

func (e *SubmissionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("submission error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("submission error: %s", e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Cause
}
