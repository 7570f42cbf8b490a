package validation

import (
	"strings"
	"time"

	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

// ValidateEmergency validates the raw input of step 4. personal is the stored step 1
// record; its date of birth decides whether a guardian contact is required.
func ValidateEmergency(in rules.Input, now time.Time, personal *types.PersonalInfo) (*types.Emergency, error) {
	ve := &rules.ValidationError{}
	rec := &types.Emergency{}

	rec.ContactName, _ = text(ve, "contactName", in, "contactName", "Contact name is required",
		rules.NonBlank("Contact name is required"),
	)
	rec.Relationship, _ = text(ve, "relationship", in, "relationship", "Relationship is required",
		rules.NonBlank("Relationship is required"),
	)
	rec.Phone, _ = text(ve, "phone", in, "phone", "Phone is required",
		rules.Matches(rules.PhonePattern, "Invalid phone format"),
	)

	guardian, present, f := rules.Object(in, "guardianContact")
	if f != nil {
		ve.Add("guardianContact", f)
	} else {
		if present && blankObject(guardian) {
			present = false
		}
		switch {
		case present:
			rec.GuardianContact = guardianContact(ve, guardian)
		case GuardianRequired(personal, now):
			ve.Add("guardianContact", rules.Fail(rules.CodeCrossDependency,
				"Guardian contact is required for employees under %d", GuardianAgeThreshold))
		}
	}

	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return rec, nil
}

func guardianContact(ve *rules.ValidationError, in rules.Input) *types.GuardianContact {
	g := &types.GuardianContact{}
	g.Name, _ = text(ve, "guardianContact.name", in, "name", "Guardian name required",
		rules.NonBlank("Guardian name required"),
	)
	g.Phone, _ = text(ve, "guardianContact.phone", in, "phone", "Invalid phone format",
		rules.Matches(rules.PhonePattern, "Invalid phone format"),
	)
	return g
}

// blankObject reports whether every value of in is missing or a blank string.
// The rendering layer sends an empty guardian block when the section is hidden.
func blankObject(in rules.Input) bool {
	for _, v := range in {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

