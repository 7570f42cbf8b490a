package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubmittedAtLayout is the ISO-8601 layout used for submission timestamps (millisecond precision, UTC).
const SubmittedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// AllFormData holds the stored record of each data step. Absent steps are nil.
type AllFormData struct {
	Step1 *PersonalInfo `json:"step1,omitempty"`
	Step2 *JobDetails   `json:"step2,omitempty"`
	Step3 *Skills       `json:"step3,omitempty"`
	Step4 *Emergency    `json:"step4,omitempty"`
}

// Get returns the stored record for step, or nil when absent.
func (d *AllFormData) Get(step StepIdentity) Record {
	switch step {
	case StepPersonalInfo:
		if d.Step1 != nil {
			return d.Step1
		}
	case StepJobDetails:
		if d.Step2 != nil {
			return d.Step2
		}
	case StepSkills:
		if d.Step3 != nil {
			return d.Step3
		}
	case StepEmergency:
		if d.Step4 != nil {
			return d.Step4
		}
	}
	return nil
}

// Has reports whether a record is stored for step.
func (d *AllFormData) Has(step StepIdentity) bool {
	return d.Get(step) != nil
}

// Put replaces the stored record of its step.
func (d *AllFormData) Put(record Record) error {
	switch r := record.(type) {
	case *PersonalInfo:
		d.Step1 = r
	case *JobDetails:
		d.Step2 = r
	case *Skills:
		d.Step3 = r
	case *Emergency:
		d.Step4 = r
	default:
		return fmt.Errorf("unsupported record type %T", record)
	}
	return nil
}

// Missing lists the data steps without a stored record, in wizard order.
func (d *AllFormData) Missing() []StepIdentity {
	var missing []StepIdentity
	for _, step := range DataSteps {
		if !d.Has(step) {
			missing = append(missing, step)
		}
	}
	return missing
}

// Complete reports whether all four data steps are stored.
func (d *AllFormData) Complete() bool {
	return len(d.Missing()) == 0
}

// Clone returns a deep copy, so callers cannot mutate state they do not own.
func (d AllFormData) Clone() AllFormData {
	return AllFormData{
		Step1: d.Step1.Clone(),
		Step2: d.Step2.Clone(),
		Step3: d.Step3.Clone(),
		Step4: d.Step4.Clone(),
	}
}

// SubmissionPayload is the final payload handed to the submission boundary:
// the four step records plus an ISO-8601 timestamp.
type SubmissionPayload struct {
	AllFormData
	SubmittedAt string `json:"submittedAt"`
}

// SubmittedTime parses SubmittedAt.
func (p *SubmissionPayload) SubmittedTime() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, p.SubmittedAt)
}

// SessionSnapshot is the persisted form of a wizard session.
type SessionSnapshot struct {
	ID          uuid.UUID    `json:"id"`
	CurrentStep StepIdentity `json:"currentStep"`
	HasUnsaved  bool         `json:"hasUnsaved"`
	Data        AllFormData  `json:"data"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Submission is a stored, successfully submitted payload.
type Submission struct {
	ID          uuid.UUID         `json:"id"`
	SessionID   uuid.UUID         `json:"sessionId"`
	Payload     SubmissionPayload `json:"payload"`
	SubmittedAt time.Time         `json:"submittedAt"`
}
