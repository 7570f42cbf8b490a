package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/onboarding-wizard/internal/directory"
	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/validation"
	"github.com/jonathan/onboarding-wizard/internal/wizard"
)

// ErrSessionNotFound indicates the session does not exist
type ErrSessionNotFound struct {
	SessionID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

// ErrCorruptSession indicates a stored session failed the layout check on restore
type ErrCorruptSession struct {
	SessionID uuid.UUID
	Cause     error
}

func (e *ErrCorruptSession) Error() string {
	return fmt.Sprintf("stored session %s is invalid: %v", e.SessionID, e.Cause)
}

func (e *ErrCorruptSession) Unwrap() error {
	return e.Cause
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// requestError converts a request DTO validation failure into an ErrValidation.
func requestError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed on '%s'", fe.Tag())}
	}
	return &ErrValidation{Field: "(request)", Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		fieldErr   *rules.ValidationError
		requestErr *ErrValidation
		notFound   *ErrSessionNotFound
		orderErr   *wizard.StepOrderError
		depErr     *wizard.DependencyError
		incomplete *validation.IncompleteError
		submitErr  *wizard.SubmissionError
		lookupErr  *validation.LookupError
	)
	switch {
	case errors.As(err, &fieldErr), errors.Is(err, validation.ErrNotConfirmed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &requestErr), errors.Is(err, validation.ErrNoSchema):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, directory.ErrUnknownDepartment):
		return http.StatusNotFound
	case errors.As(err, &orderErr), errors.As(err, &depErr), errors.As(err, &incomplete),
		errors.Is(err, wizard.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.As(err, &submitErr):
		return http.StatusBadGateway
	case errors.As(err, &lookupErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string             `json:"error"`
	Errors  map[string]string  `json:"errors,omitempty"`
	Fields  []rules.FieldError `json:"fields,omitempty"`
	Missing []string           `json:"missing,omitempty"`
}

// newErrorResponse builds the body for err. Field errors carry both the
// path → message map and the coded list.
func newErrorResponse(err error) ErrorResponse {
	var fieldErr *rules.ValidationError
	if errors.As(err, &fieldErr) {
		return ErrorResponse{
			Error:  "validation failed",
			Errors: fieldErr.Messages(),
			Fields: fieldErr.Errors,
		}
	}

	resp := ErrorResponse{Error: err.Error()}
	var incomplete *validation.IncompleteError
	if errors.As(err, &incomplete) {
		for _, step := range incomplete.Missing {
			resp.Missing = append(resp.Missing, step.Key())
		}
	}
	var depErr *wizard.DependencyError
	if errors.As(err, &depErr) {
		for _, step := range depErr.MissingDependencies {
			resp.Missing = append(resp.Missing, step.Key())
		}
	}
	return resp
}
