// Package types provides type definitions for structured data used throughout the onboarding wizard.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StepIdentity identifies one ordered stage of the wizard.
type StepIdentity int

// Wizard steps, ordered 1..5.
const (
	StepPersonalInfo StepIdentity = iota + 1
	StepJobDetails
	StepSkills
	StepEmergency
	StepReview
)

// TotalSteps is the number of wizard steps including Review.
const TotalSteps = int(StepReview)

// AllSteps lists every step in wizard order.
var AllSteps = []StepIdentity{StepPersonalInfo, StepJobDetails, StepSkills, StepEmergency, StepReview}

// DataSteps lists the steps that carry a record (everything except Review).
var DataSteps = []StepIdentity{StepPersonalInfo, StepJobDetails, StepSkills, StepEmergency}

var stepSlugs = map[StepIdentity]string{
	StepPersonalInfo: "personal-info",
	StepJobDetails:   "job-details",
	StepSkills:       "skills",
	StepEmergency:    "emergency",
	StepReview:       "review",
}

var stepLabels = map[StepIdentity]string{
	StepPersonalInfo: "Personal",
	StepJobDetails:   "Job",
	StepSkills:       "Skills",
	StepEmergency:    "Emergency",
	StepReview:       "Review",
}

// Valid reports whether s is one of the five wizard steps.
func (s StepIdentity) Valid() bool {
	return s >= StepPersonalInfo && s <= StepReview
}

// HasRecord reports whether the step stores a record in AllFormData.
func (s StepIdentity) HasRecord() bool {
	return s >= StepPersonalInfo && s <= StepEmergency
}

// Slug returns the URL-friendly name of the step (e.g. "job-details").
func (s StepIdentity) Slug() string {
	if slug, ok := stepSlugs[s]; ok {
		return slug
	}
	return fmt.Sprintf("step-%d", int(s))
}

// Key returns the persisted layout key for the step ("step1".."step4").
func (s StepIdentity) Key() string {
	return "step" + strconv.Itoa(int(s))
}

// Label returns the short label shown in the step indicator.
func (s StepIdentity) Label() string {
	return stepLabels[s]
}

func (s StepIdentity) String() string {
	return s.Slug()
}

// ParseStep accepts a slug ("skills"), a layout key ("step3") or a number ("3").
func ParseStep(value string) (StepIdentity, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for step, slug := range stepSlugs {
		if v == slug {
			return step, nil
		}
	}
	v = strings.TrimPrefix(v, "step")
	n, err := strconv.Atoi(v)
	if err != nil || !StepIdentity(n).Valid() {
		return 0, fmt.Errorf("unknown step: %q", value)
	}
	return StepIdentity(n), nil
}

// MarshalJSON encodes the step as its number.
func (s StepIdentity) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

// UnmarshalJSON accepts either a number or any form understood by ParseStep.
func (s *StepIdentity) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if !StepIdentity(n).Valid() {
			return fmt.Errorf("step out of range: %d", n)
		}
		*s = StepIdentity(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid step: %s", string(data))
	}
	parsed, err := ParseStep(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
