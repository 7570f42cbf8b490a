// Package rules provides the atomic field validators the per-step validators are composed from.
package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Code classifies a field failure.
type Code string

// Error taxonomy surfaced to the rendering layer.
const (
	CodeRequired          Code = "field_required"
	CodeFormatInvalid     Code = "field_format_invalid"
	CodeOutOfRange        Code = "field_out_of_range"
	CodeCrossDependency   Code = "field_cross_dependency_violation"
	CodeCountBelowMinimum Code = "field_count_below_minimum"
)

// Failure is the reason a single primitive rejected a value.
type Failure struct {
	Code    Code
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Fail builds a Failure.
func Fail(code Code, format string, args ...any) *Failure {
	return &Failure{Code: code, Message: fmt.Sprintf(format, args...)}
}

// FieldError is a failure attached to a field path such as "guardianContact.phone".
type FieldError struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// ValidationError collects the field errors of one validation pass.
// At most one error is kept per field path.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Add records f under field unless f is nil or the field already has an error.
func (ve *ValidationError) Add(field string, f *Failure) {
	if f == nil || ve.Has(field) {
		return
	}
	ve.Errors = append(ve.Errors, FieldError{Field: field, Code: f.Code, Message: f.Message})
}

// Merge copies other's errors under prefix ("step4" turns "phone" into "step4.phone").
func (ve *ValidationError) Merge(prefix string, other *ValidationError) {
	if other == nil {
		return
	}
	for _, fe := range other.Errors {
		field := fe.Field
		if prefix != "" {
			field = prefix + "." + field
		}
		ve.Add(field, &Failure{Code: fe.Code, Message: fe.Message})
	}
}

// Has reports whether field already carries an error.
func (ve *ValidationError) Has(field string) bool {
	return ve.Get(field) != nil
}

// Get returns the error recorded for field, or nil.
func (ve *ValidationError) Get(field string) *FieldError {
	for i := range ve.Errors {
		if ve.Errors[i].Field == field {
			return &ve.Errors[i]
		}
	}
	return nil
}

// Messages returns the field path → message mapping.
func (ve *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(ve.Errors))
	for _, fe := range ve.Errors {
		out[fe.Field] = fe.Message
	}
	return out
}

// Fields returns the failing field paths, sorted.
func (ve *ValidationError) Fields() []string {
	fields := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		fields = append(fields, fe.Field)
	}
	sort.Strings(fields)
	return fields
}

// Empty reports whether no error was recorded.
func (ve *ValidationError) Empty() bool {
	return len(ve.Errors) == 0
}

// OrNil returns ve as an error, or nil when it is empty.
func (ve *ValidationError) OrNil() error {
	if ve == nil || ve.Empty() {
		return nil
	}
	return ve
}
