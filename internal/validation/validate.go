package validation

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

// Deps carries everything a step validator may depend on besides its own input.
// Data is consulted for cross-step rules; nil lookups skip reference data checks.
type Deps struct {
	Now      time.Time
	Data     types.AllFormData
	Managers ManagerLookup
	Skills   SkillLookup
}

// ValidateStep dispatches raw input to the validator of step.
// Field failures are returned as *rules.ValidationError.
func ValidateStep(step types.StepIdentity, in rules.Input, deps Deps) (types.Record, error) {
	if in == nil {
		in = rules.Input{}
	}
	switch step {
	case types.StepPersonalInfo:
		return ValidatePersonalInfo(in, deps.Now)
	case types.StepJobDetails:
		return ValidateJobDetails(in, deps.Now, deps.Managers)
	case types.StepSkills:
		return ValidateSkills(in, SkillDepartment(deps.Data.Step2), deps.Skills)
	case types.StepEmergency:
		return ValidateEmergency(in, deps.Now, deps.Data.Step1)
	case types.StepReview:
		return nil, ErrNoSchema
	}
	return nil, fmt.Errorf("unknown step: %d", int(step))
}

// Revalidate runs every stored record of data back through its validator.
// Field failures are keyed by step ("step2.salary").
func Revalidate(data types.AllFormData, deps Deps) error {
	deps.Data = data
	ve := &rules.ValidationError{}
	for _, step := range types.DataSteps {
		record := data.Get(step)
		if record == nil {
			continue
		}
		in, err := rules.InputFrom(record)
		if err != nil {
			return fmt.Errorf("failed to re-read %s: %w", step, err)
		}
		_, err = ValidateStep(step, in, deps)
		var stepErrs *rules.ValidationError
		switch {
		case err == nil:
		case errors.As(err, &stepErrs):
			ve.Merge(step.Key(), stepErrs)
		default:
			return err
		}
	}
	return ve.OrNil()
}

// Review is the gate of step 5: the aggregate payload is only emitted when
// confirmed is true and all four data steps are stored.
func Review(confirmed bool, data types.AllFormData, now time.Time) (*types.SubmissionPayload, error) {
	if !confirmed {
		return nil, ErrNotConfirmed
	}
	if missing := data.Missing(); len(missing) > 0 {
		return nil, &IncompleteError{Missing: missing}
	}
	return &types.SubmissionPayload{
		AllFormData: data.Clone(),
		SubmittedAt: now.UTC().Format(types.SubmittedAtLayout),
	}, nil
}
