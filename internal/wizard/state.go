package wizard

import (
	"fmt"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

// State is the aggregate wizard state. It exclusively owns Data; all changes go
// through the methods below and replace whole step records.
type State struct {
	Data        types.AllFormData
	CurrentStep types.StepIdentity
	HasUnsaved  bool
}

// NewState returns an empty state positioned at the first step.
func NewState() *State {
	return &State{CurrentStep: types.StepPersonalInfo}
}

// SetStepData replaces the stored record of step and marks the state dirty.
func (s *State) SetStepData(step types.StepIdentity, record types.Record) error {
	if record == nil {
		return fmt.Errorf("no record for step %s", step)
	}
	if record.Step() != step {
		return fmt.Errorf("record for step %s cannot be stored as step %s", record.Step(), step)
	}
	if err := s.Data.Put(record); err != nil {
		return err
	}
	s.HasUnsaved = true
	return nil
}

// GoNext advances one step, stopping at Review.
func (s *State) GoNext() {
	s.CurrentStep = clamp(s.CurrentStep + 1)
}

// GoBack returns one step, stopping at the first step.
func (s *State) GoBack() {
	s.CurrentStep = clamp(s.CurrentStep - 1)
}

// GoTo moves to step, clamped to the wizard's range.
func (s *State) GoTo(step types.StepIdentity) {
	s.CurrentStep = clamp(step)
}

// Submit replaces the data wholesale and clears the dirty flag.
func (s *State) Submit(data types.AllFormData) {
	s.Data = data.Clone()
	s.HasUnsaved = false
}

// Reset clears all data and returns to the first step.
func (s *State) Reset() {
	s.Data = types.AllFormData{}
	s.CurrentStep = types.StepPersonalInfo
	s.HasUnsaved = false
}

func clamp(step types.StepIdentity) types.StepIdentity {
	if step < types.StepPersonalInfo {
		return types.StepPersonalInfo
	}
	if step > types.StepReview {
		return types.StepReview
	}
	return step
}
