package types

import (
	"github.com/go-playground/validator/v10"
)

// SubmitRequest is the body of the final submission request.
// Confirmed is a pointer so that an omitted flag fails "required" while false reaches the review gate.
type SubmitRequest struct {
	Confirmed *bool `json:"confirmed" validate:"required"`
}

// GotoRequest asks the wizard to jump to a step.
type GotoRequest struct {
	Step int `json:"step" validate:"required,min=1,max=5"`
}

// ListSubmissionsQuery holds the query parameters of the submissions listing.
type ListSubmissionsQuery struct {
	Limit int `validate:"omitempty,min=1,max=500"`
}

// ManagerSearchQuery holds the query parameters of the manager lookup.
type ManagerSearchQuery struct {
	Department string `validate:"required,oneof=Engineering Marketing Sales HR Finance"`
	Search     string `validate:"max=100"`
}

// Validate validates the SubmitRequest using the validator.
func (r *SubmitRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the GotoRequest using the validator.
func (r *GotoRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ListSubmissionsQuery using the validator.
func (r *ListSubmissionsQuery) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ManagerSearchQuery using the validator.
func (r *ManagerSearchQuery) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
