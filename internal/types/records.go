package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Department is the organisational unit a new hire joins.
type Department string

// Supported departments.
const (
	DepartmentEngineering Department = "Engineering"
	DepartmentMarketing   Department = "Marketing"
	DepartmentSales       Department = "Sales"
	DepartmentHR          Department = "HR"
	DepartmentFinance     Department = "Finance"
)

// Departments lists every department in display order.
var Departments = []Department{
	DepartmentEngineering,
	DepartmentMarketing,
	DepartmentSales,
	DepartmentHR,
	DepartmentFinance,
}

// Valid reports whether d is a known department.
func (d Department) Valid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// JobType is the employment arrangement.
type JobType string

// Supported job types.
const (
	JobTypeFullTime JobType = "Full-time"
	JobTypePartTime JobType = "Part-time"
	JobTypeContract JobType = "Contract"
)

// JobTypes lists every job type in display order.
var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract}

// Valid reports whether j is a known job type.
func (j JobType) Valid() bool {
	return j == JobTypeFullTime || j == JobTypePartTime || j == JobTypeContract
}

// Date is a calendar date without time of day, encoded as YYYY-MM-DD.
// The wrapped time is always midnight UTC.
type Date struct {
	time.Time
}

// NewDate builds a Date from calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses YYYY-MM-DD, falling back to RFC 3339 timestamps.
func ParseDate(value string) (Date, error) {
	v := strings.TrimSpace(value)
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("invalid date: %q", value)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Record is implemented by every per-step record.
type Record interface {
	Step() StepIdentity
}

// FileMeta describes an uploaded file without its contents.
type FileMeta struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// PersonalInfo is the validated record of step 1.
type PersonalInfo struct {
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	DOB            Date      `json:"dob"`
	ProfilePicture *FileMeta `json:"profilePicture,omitempty"`
}

// Step implements Record.
func (*PersonalInfo) Step() StepIdentity { return StepPersonalInfo }

// Clone returns a deep copy of p.
func (p *PersonalInfo) Clone() *PersonalInfo {
	if p == nil {
		return nil
	}
	c := *p
	if p.ProfilePicture != nil {
		pic := *p.ProfilePicture
		c.ProfilePicture = &pic
	}
	return &c
}

// JobDetails is the validated record of step 2.
type JobDetails struct {
	Department    Department `json:"department"`
	PositionTitle string     `json:"positionTitle"`
	StartDate     Date       `json:"startDate"`
	JobType       JobType    `json:"jobType"`
	Salary        *float64   `json:"salary,omitempty"`
	Manager       string     `json:"manager"`
}

// Step implements Record.
func (*JobDetails) Step() StepIdentity { return StepJobDetails }

// Clone returns a deep copy of j.
func (j *JobDetails) Clone() *JobDetails {
	if j == nil {
		return nil
	}
	c := *j
	if j.Salary != nil {
		salary := *j.Salary
		c.Salary = &salary
	}
	return &c
}

// PreferredHours is a daily working window as HH:MM strings.
type PreferredHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Skills is the validated record of step 3.
type Skills struct {
	Skills           []string          `json:"skills"`
	Experiences      map[string]string `json:"experiences"`
	PreferredHours   PreferredHours    `json:"preferredHours"`
	RemotePreference int               `json:"remotePreference"`
	ManagerApproved  *bool             `json:"managerApproved,omitempty"`
	Notes            string            `json:"notes,omitempty"`
}

// Step implements Record.
func (*Skills) Step() StepIdentity { return StepSkills }

// Clone returns a deep copy of s.
func (s *Skills) Clone() *Skills {
	if s == nil {
		return nil
	}
	c := *s
	if s.Skills != nil {
		c.Skills = append([]string(nil), s.Skills...)
	}
	if s.Experiences != nil {
		c.Experiences = make(map[string]string, len(s.Experiences))
		for k, v := range s.Experiences {
			c.Experiences[k] = v
		}
	}
	if s.ManagerApproved != nil {
		approved := *s.ManagerApproved
		c.ManagerApproved = &approved
	}
	return &c
}

// GuardianContact is the nested guardian block of step 4.
type GuardianContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Emergency is the validated record of step 4.
type Emergency struct {
	ContactName     string           `json:"contactName"`
	Relationship    string           `json:"relationship"`
	Phone           string           `json:"phone"`
	GuardianContact *GuardianContact `json:"guardianContact,omitempty"`
}

// Step implements Record.
func (*Emergency) Step() StepIdentity { return StepEmergency }

// Clone returns a deep copy of e.
func (e *Emergency) Clone() *Emergency {
	if e == nil {
		return nil
	}
	c := *e
	if e.GuardianContact != nil {
		guardian := *e.GuardianContact
		c.GuardianContact = &guardian
	}
	return &c
}
