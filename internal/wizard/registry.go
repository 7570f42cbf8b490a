// Package wizard provides the aggregate wizard state model, the step registry and
// the session orchestrator that routes raw step input through the validators.
package wizard

import (
	"fmt"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

// Step categories
const (
	CategoryData   = "data"
	CategoryReview = "review"
)

// StepDefinition defines metadata for a wizard step
type StepDefinition struct {
	Step     types.StepIdentity
	Name     string
	Category string
	// Dependencies must be stored before the step can be reached.
	Dependencies []types.StepIdentity
	// Reads lists the stored records the step's validator consults.
	// A missing record falls back to a default (Engineering, unknown age).
	Reads []types.StepIdentity
}

// StepRegistry holds all step definitions
var StepRegistry = map[types.StepIdentity]StepDefinition{
	types.StepPersonalInfo: {
		Step:     types.StepPersonalInfo,
		Name:     "Personal Information",
		Category: CategoryData,
	},
	types.StepJobDetails: {
		Step:         types.StepJobDetails,
		Name:         "Job Details",
		Category:     CategoryData,
		Dependencies: []types.StepIdentity{types.StepPersonalInfo},
	},
	types.StepSkills: {
		Step:         types.StepSkills,
		Name:         "Skills & Preferences",
		Category:     CategoryData,
		Dependencies: []types.StepIdentity{types.StepPersonalInfo, types.StepJobDetails},
		Reads:        []types.StepIdentity{types.StepJobDetails},
	},
	types.StepEmergency: {
		Step:         types.StepEmergency,
		Name:         "Emergency Contact",
		Category:     CategoryData,
		Dependencies: []types.StepIdentity{types.StepPersonalInfo, types.StepJobDetails, types.StepSkills},
		Reads:        []types.StepIdentity{types.StepPersonalInfo},
	},
	types.StepReview: {
		Step:         types.StepReview,
		Name:         "Review",
		Category:     CategoryReview,
		Dependencies: []types.StepIdentity{types.StepPersonalInfo, types.StepJobDetails, types.StepSkills, types.StepEmergency},
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                types.StepIdentity
	MissingDependencies []types.StepIdentity
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s is not reachable: missing %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every prerequisite of step is stored in data
func ValidateDependencies(data *types.AllFormData, step types.StepIdentity) error {
	def, ok := StepRegistry[step]
	if !ok {
		return fmt.Errorf("unknown step: %d", int(step))
	}

	var missing []types.StepIdentity
	for _, dep := range def.Dependencies {
		if !data.Has(dep) {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                step,
			MissingDependencies: missing,
		}
	}

	return nil
}

// AvailableSteps returns the steps whose dependencies are met, in wizard order
func AvailableSteps(data *types.AllFormData) []types.StepIdentity {
	var available []types.StepIdentity
	for _, step := range types.AllSteps {
		if ValidateDependencies(data, step) == nil {
			available = append(available, step)
		}
	}
	return available
}

// HighestReachable returns the furthest step that can be navigated to
func HighestReachable(data *types.AllFormData) types.StepIdentity {
	highest := types.StepPersonalInfo
	for _, step := range types.AllSteps {
		if ValidateDependencies(data, step) != nil {
			break
		}
		highest = step
	}
	return highest
}

// Dependents returns the steps whose validators read the record of step
func Dependents(step types.StepIdentity) []types.StepIdentity {
	var out []types.StepIdentity
	for _, s := range types.AllSteps {
		for _, r := range StepRegistry[s].Reads {
			if r == step {
				out = append(out, s)
			}
		}
	}
	return out
}
