package wizard

import (
	"testing"

	"github.com/jonathan/onboarding-wizard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRegistry(t *testing.T) {
	for _, step := range types.AllSteps {
		def, ok := StepRegistry[step]
		require.True(t, ok, "Step %s should be in registry", step)
		assert.Equal(t, step, def.Step)
		assert.NotEmpty(t, def.Name)
	}
	assert.Equal(t, CategoryReview, StepRegistry[types.StepReview].Category)
}

func TestDependencyError(t *testing.T) {
	data := &types.AllFormData{Step1: &types.PersonalInfo{}}
	err := ValidateDependencies(data, types.StepSkills)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, types.StepSkills, depErr.Step)
	assert.Equal(t, []types.StepIdentity{types.StepJobDetails}, depErr.MissingDependencies)
	assert.Contains(t, err.Error(), "not reachable")

	assert.NoError(t, ValidateDependencies(data, types.StepJobDetails))
	assert.Error(t, ValidateDependencies(data, types.StepIdentity(7)))
}

func TestAvailableSteps(t *testing.T) {
	empty := &types.AllFormData{}
	assert.Equal(t, []types.StepIdentity{types.StepPersonalInfo}, AvailableSteps(empty))
	assert.Equal(t, types.StepPersonalInfo, HighestReachable(empty))

	partial := &types.AllFormData{Step1: &types.PersonalInfo{}, Step2: &types.JobDetails{}}
	assert.Equal(t, []types.StepIdentity{types.StepPersonalInfo, types.StepJobDetails, types.StepSkills}, AvailableSteps(partial))
	assert.Equal(t, types.StepSkills, HighestReachable(partial))

	// A gap stops reachability even when later records exist.
	gap := &types.AllFormData{Step1: &types.PersonalInfo{}, Step3: &types.Skills{}}
	assert.Equal(t, types.StepJobDetails, HighestReachable(gap))

	full := &types.AllFormData{
		Step1: &types.PersonalInfo{},
		Step2: &types.JobDetails{},
		Step3: &types.Skills{},
		Step4: &types.Emergency{},
	}
	assert.Equal(t, types.AllSteps, AvailableSteps(full))
	assert.Equal(t, types.StepReview, HighestReachable(full))
}

func TestDependents(t *testing.T) {
	assert.Equal(t, []types.StepIdentity{types.StepEmergency}, Dependents(types.StepPersonalInfo))
	assert.Equal(t, []types.StepIdentity{types.StepSkills}, Dependents(types.StepJobDetails))
	assert.Empty(t, Dependents(types.StepEmergency))
}
