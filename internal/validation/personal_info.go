package validation

import (
	"time"

	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

// MaxProfilePictureBytes is the largest accepted profile picture (2 MiB).
const MaxProfilePictureBytes = 2 * 1024 * 1024

// AllowedPictureTypes lists the accepted profile picture MIME types.
var AllowedPictureTypes = []string{"image/jpeg", "image/png"}

// ValidatePersonalInfo validates the raw input of step 1.
// The age check uses now, so the same input can change outcome across a day boundary.
func ValidatePersonalInfo(in rules.Input, now time.Time) (*types.PersonalInfo, error) {
	ve := &rules.ValidationError{}
	rec := &types.PersonalInfo{}

	rec.FullName, _ = text(ve, "fullName", in, "fullName", "Full Name is required",
		rules.NonBlank("Full Name is required"),
		rules.MinWords(2, "Full Name must contain at least 2 words"),
	)
	rec.Email, _ = text(ve, "email", in, "email", "Email is required",
		rules.NonBlank("Email is required"),
		rules.Email("Invalid email"),
	)
	rec.Phone, _ = text(ve, "phone", in, "phone", "Phone is required",
		rules.Matches(rules.PhonePattern, "Phone format: +1-123-456-7890"),
	)

	if raw, ok := text(ve, "dob", in, "dob", "Date of birth is required"); ok {
		dob, f := rules.ParseDate(raw, "Invalid date of birth")
		if f == nil {
			today := types.DateOf(now)
			f = rules.First(dob, func(d types.Date) *rules.Failure {
				if !ReachedAge(d, today, MinimumAge) {
					return rules.Fail(rules.CodeOutOfRange, "Must be at least %d years old", MinimumAge)
				}
				return nil
			})
		}
		ve.Add("dob", f)
		rec.DOB = dob
	}

	if pic, present, f := rules.Object(in, "profilePicture"); f != nil {
		ve.Add("profilePicture", f)
	} else if present {
		meta, f := profilePicture(pic)
		ve.Add("profilePicture", f)
		rec.ProfilePicture = meta
	}

	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	return rec, nil
}

func profilePicture(in rules.Input) (*types.FileMeta, *rules.Failure) {
	meta := &types.FileMeta{}
	name, _, f := rules.String(in, "name")
	if f != nil {
		return nil, f
	}
	meta.Name = name

	mime, _, f := rules.String(in, "type")
	if f != nil {
		return nil, f
	}
	meta.Type = mime

	size, present, f := rules.Number(in, "size")
	if f != nil {
		return nil, f
	}
	if !present {
		return nil, rules.Fail(rules.CodeRequired, "File size is required")
	}
	meta.Size = int64(size)

	typeFailure := rules.OneOf(AllowedPictureTypes, "Only JPG or PNG allowed")(mime)
	sizeFailure := rules.First(size,
		rules.Whole("File size must be a whole number of bytes"),
		rules.Between(0, MaxProfilePictureBytes, "Max file size is 2MB"),
	)
	if typeFailure != nil {
		return nil, typeFailure
	}
	if sizeFailure != nil {
		return nil, sizeFailure
	}
	return meta, nil
}
