package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

const (
	// MinSkills is the minimum number of distinct skills.
	MinSkills = 3

	// MaxNotesLength bounds the free-text notes.
	MaxNotesLength = 500

	// RemoteApprovalThreshold is the remote preference above which manager approval is meaningful.
	RemoteApprovalThreshold = 50
)

// SkillLookup returns the selectable skills of a department.
type SkillLookup func(types.Department) ([]string, error)

// ValidateSkills validates the raw input of step 3. department selects the skill
// options (see SkillDepartment); membership is only enforced when skills is non-nil.
func ValidateSkills(in rules.Input, department types.Department, skills SkillLookup) (*types.Skills, error) {
	ve := &rules.ValidationError{}
	rec := &types.Skills{Experiences: map[string]string{}}

	selected, present, f := rules.StringList(in, "skills")
	switch {
	case f != nil:
		ve.Add("skills", f)
	case !present:
		ve.Add("skills", rules.Fail(rules.CodeRequired, "Skills are required"))
	default:
		selected = dedupe(selected)
		rec.Skills = selected
		ve.Add("skills", rules.MinCount(MinSkills, fmt.Sprintf("Select at least %d skills", MinSkills))(selected))
		if !ve.Has("skills") && skills != nil {
			allowed, err := skills(department)
			switch {
			case errors.Is(err, ErrUnknownDepartment):
				ve.Add("skills", rules.Fail(rules.CodeCrossDependency, "No skills are available for the %s department", department))
			case err != nil:
				return nil, &LookupError{Message: fmt.Sprintf("failed to load skills for %s", department), Cause: err}
			default:
				ve.Add("skills", membership(selected, allowed, department))
			}
		}
	}

	experiences, _, f := rules.StringMap(in, "experiences")
	if f != nil {
		ve.Add("experiences", f)
	} else if experiences != nil {
		chosen := make(map[string]bool, len(rec.Skills))
		for _, s := range rec.Skills {
			chosen[s] = true
		}
		for _, skill := range sortedKeys(experiences) {
			if !chosen[skill] {
				ve.Add(join("experiences", skill),
					rules.Fail(rules.CodeCrossDependency, "Experience provided for a skill that is not selected"))
			}
		}
		rec.Experiences = experiences
	}

	hours, present, f := rules.Object(in, "preferredHours")
	switch {
	case f != nil:
		ve.Add("preferredHours", f)
	case !present:
		ve.Add("preferredHours", rules.Fail(rules.CodeRequired, "Preferred hours are required"))
	default:
		rec.PreferredHours = preferredHours(ve, hours)
	}

	remote, present, f := rules.Number(in, "remotePreference")
	switch {
	case f != nil:
		ve.Add("remotePreference", f)
	case !present:
		ve.Add("remotePreference", rules.Fail(rules.CodeRequired, "Remote preference is required"))
	default:
		ve.Add("remotePreference", rules.First(remote,
			rules.Whole("Remote preference must be a whole number"),
			rules.Between(0, 100, "Remote preference must be between 0 and 100"),
		))
		rec.RemotePreference = int(remote)
	}

	approved, present, f := rules.Bool(in, "managerApproved")
	if present {
		switch {
		case f == nil:
			rec.ManagerApproved = &approved
		case remote > RemoteApprovalThreshold:
			ve.Add("managerApproved", f)
		}
	}

	notes, _, f := rules.String(in, "notes")
	if f == nil {
		f = rules.MaxLength(MaxNotesLength, "Max 500 characters")(notes)
	}
	ve.Add("notes", f)
	rec.Notes = notes

	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return rec, nil
}

func preferredHours(ve *rules.ValidationError, in rules.Input) types.PreferredHours {
	var hours types.PreferredHours
	start, startOK := text(ve, "preferredHours.start", in, "start", "Start time is required",
		rules.Matches(rules.TimeOfDayPattern, "Start time must be HH:MM"),
	)
	end, endOK := text(ve, "preferredHours.end", in, "end", "End time is required",
		rules.Matches(rules.TimeOfDayPattern, "End time must be HH:MM"),
	)
	hours.Start, hours.End = start, end
	if startOK && endOK {
		ve.Add("preferredHours", rules.Before("Start time must be before end time")([2]string{start, end}))
	}
	return hours
}

func membership(selected, allowed []string, department types.Department) *rules.Failure {
	known := make(map[string]bool, len(allowed))
	for _, s := range allowed {
		known[s] = true
	}
	var unknown []string
	for _, s := range selected {
		if !known[s] {
			unknown = append(unknown, s)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return rules.Fail(rules.CodeCrossDependency, "Not a %s skill: %s", department, strings.Join(unknown, ", "))
}

// dedupe collapses repeated entries, keeping the first occurrence.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
