package validation

import (
	"strings"
	"time"

	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

const (
	// ContractHourlyRate is the fixed hourly rate of Contract positions.
	ContractHourlyRate = 150

	// MinimumAge is the youngest age accepted in the personal info step.
	MinimumAge = 18

	// GuardianAgeThreshold is the age below which a guardian contact is required.
	GuardianAgeThreshold = 21

	// unknownAge is used when no date of birth has been stored yet.
	unknownAge = 99
)

// NaiveAge subtracts calendar years only, ignoring month and day.
// It is the age used to decide guardian-contact necessity.
func NaiveAge(dob types.Date, now time.Time) int {
	return now.Year() - dob.Year()
}

// ReachedAge reports whether the person born on dob is at least years old on today.
// A 29 February birthday is reached on 1 March in non-leap years.
func ReachedAge(dob, today types.Date, years int) bool {
	return !today.Before(dob.AddDate(years, 0, 0))
}

// GuardianAge derives the age used by the emergency step from the personal info record.
func GuardianAge(personal *types.PersonalInfo, now time.Time) int {
	if personal == nil || personal.DOB.IsZero() {
		return unknownAge
	}
	return NaiveAge(personal.DOB, now)
}

// GuardianRequired reports whether the emergency step must carry a guardian contact.
func GuardianRequired(personal *types.PersonalInfo, now time.Time) bool {
	return GuardianAge(personal, now) < GuardianAgeThreshold
}

// ApplyJobTypeDefaults returns a copy of raw job details input with derived values applied:
// a Contract job type forces the salary to the fixed hourly rate. Switching away from
// Contract leaves the salary as it is.
func ApplyJobTypeDefaults(in rules.Input) rules.Input {
	out := in.Clone()
	if jobType, _, f := rules.String(in, "jobType"); f == nil && types.JobType(jobType) == types.JobTypeContract {
		out["salary"] = float64(ContractHourlyRate)
	}
	return out
}

// ApplyDerivations applies the derivation rules that rewrite the raw input of step.
func ApplyDerivations(step types.StepIdentity, in rules.Input) rules.Input {
	if step == types.StepJobDetails {
		return ApplyJobTypeDefaults(in)
	}
	return in.Clone()
}

// SearchManagers narrows candidates to names containing search, ignoring case.
func SearchManagers(candidates []types.Manager, search string) []types.Manager {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]types.Manager, 0, len(candidates))
	for _, m := range candidates {
		if q == "" || strings.Contains(strings.ToLower(m.Name), q) {
			out = append(out, m)
		}
	}
	return out
}

// InCandidateSet reports whether name identifies one of candidates.
func InCandidateSet(name string, candidates []types.Manager) bool {
	for _, m := range candidates {
		if m.Name == name {
			return true
		}
	}
	return false
}

// SkillDepartment returns the department the skills step draws its options from.
// Engineering is used until job details have been stored.
func SkillDepartment(job *types.JobDetails) types.Department {
	if job == nil || !job.Department.Valid() {
		return types.DepartmentEngineering
	}
	return job.Department
}
