package rules

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

// PhonePattern matches "+<1-3 digits>-<3 digits>-<3 digits>-<4 digits>".
var PhonePattern = regexp.MustCompile(`^\+\d{1,3}-\d{3}-\d{3}-\d{4}$`)

// validate is safe for concurrent use and caches parsed tags.
var validate = validator.New()

// Check is a pure predicate over an already-extracted value.
type Check[T any] func(T) *Failure

// First evaluates every check against v and returns the first failure in declaration order.
func First[T any](v T, checks ...Check[T]) *Failure {
	var first *Failure
	for _, check := range checks {
		if f := check(v); f != nil && first == nil {
			first = f
		}
	}
	return first
}

// WithCode reclassifies the failures of check.
func WithCode[T any](code Code, check Check[T]) Check[T] {
	return func(v T) *Failure {
		f := check(v)
		if f == nil {
			return nil
		}
		return &Failure{Code: code, Message: f.Message}
	}
}

// RequiredString reads a string that must be present. A missing key fails with msg.
// An empty string is present; whether it is acceptable is up to the checks.
func RequiredString(in Input, key, msg string) (string, *Failure) {
	s, present, f := String(in, key)
	if f != nil {
		return "", f
	}
	if !present {
		return "", Fail(CodeRequired, "%s", msg)
	}
	return s, nil
}

// NonBlank rejects strings that are empty after trimming.
func NonBlank(msg string) Check[string] {
	return func(s string) *Failure {
		if strings.TrimSpace(s) == "" {
			return Fail(CodeRequired, "%s", msg)
		}
		return nil
	}
}

// MinLength rejects strings shorter than n characters after trimming.
func MinLength(n int, msg string) Check[string] {
	return func(s string) *Failure {
		if utf8.RuneCountInString(strings.TrimSpace(s)) < n {
			return Fail(CodeOutOfRange, "%s", msg)
		}
		return nil
	}
}

// MaxLength rejects strings longer than n characters after trimming.
func MaxLength(n int, msg string) Check[string] {
	return func(s string) *Failure {
		if utf8.RuneCountInString(strings.TrimSpace(s)) > n {
			return Fail(CodeOutOfRange, "%s", msg)
		}
		return nil
	}
}

// MinWords rejects strings with fewer than n whitespace-separated tokens.
func MinWords(n int, msg string) Check[string] {
	return func(s string) *Failure {
		if len(strings.Fields(s)) < n {
			return Fail(CodeFormatInvalid, "%s", msg)
		}
		return nil
	}
}

// Matches rejects strings that do not match re.
func Matches(re *regexp.Regexp, msg string) Check[string] {
	return func(s string) *Failure {
		if !re.MatchString(s) {
			return Fail(CodeFormatInvalid, "%s", msg)
		}
		return nil
	}
}

// Email rejects strings that are not RFC-shaped addresses.
func Email(msg string) Check[string] {
	return func(s string) *Failure {
		if err := validate.Var(s, "required,email"); err != nil {
			return Fail(CodeFormatInvalid, "%s", msg)
		}
		return nil
	}
}

// OneOf rejects values outside allowed.
func OneOf[T comparable](allowed []T, msg string) Check[T] {
	return func(v T) *Failure {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return Fail(CodeFormatInvalid, "%s", msg)
	}
}

// Between rejects numbers outside [lo, hi].
func Between(lo, hi float64, msg string) Check[float64] {
	return func(n float64) *Failure {
		if n < lo || n > hi {
			return Fail(CodeOutOfRange, "%s", msg)
		}
		return nil
	}
}

// Whole rejects numbers with a fractional part.
func Whole(msg string) Check[float64] {
	return func(n float64) *Failure {
		if n != math.Trunc(n) {
			return Fail(CodeFormatInvalid, "%s", msg)
		}
		return nil
	}
}

// Equal rejects numbers other than want.
func Equal(want float64, msg string) Check[float64] {
	return func(n float64) *Failure {
		if n != want {
			return Fail(CodeOutOfRange, "%s", msg)
		}
		return nil
	}
}

// MinCount rejects lists with fewer than n members.
func MinCount(n int, msg string) Check[[]string] {
	return func(items []string) *Failure {
		if len(items) < n {
			return Fail(CodeCountBelowMinimum, "%s", msg)
		}
		return nil
	}
}

// ParseDate converts a raw string into a calendar date.
func ParseDate(s, msg string) (types.Date, *Failure) {
	if strings.TrimSpace(s) == "" {
		return types.Date{}, Fail(CodeRequired, "%s", msg)
	}
	d, err := types.ParseDate(s)
	if err != nil {
		return types.Date{}, Fail(CodeFormatInvalid, "%s", msg)
	}
	return d, nil
}

// DateBetween rejects dates outside [from, to].
func DateBetween(from, to types.Date, msg string) Check[types.Date] {
	return func(d types.Date) *Failure {
		if d.Before(from.Time) || d.After(to.Time) {
			return Fail(CodeOutOfRange, "%s", msg)
		}
		return nil
	}
}

// NotOn rejects dates falling on any of days.
func NotOn(days []time.Weekday, msg string) Check[types.Date] {
	return func(d types.Date) *Failure {
		for _, day := range days {
			if d.Weekday() == day {
				return Fail(CodeCrossDependency, "%s", msg)
			}
		}
		return nil
	}
}

// TimeOfDayPattern matches zero-padded 24-hour "HH:MM" strings, which sort chronologically.
var TimeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Before rejects pairs whose first string does not sort strictly before the second.
func Before(msg string) Check[[2]string] {
	return func(pair [2]string) *Failure {
		if pair[0] >= pair[1] {
			return Fail(CodeOutOfRange, "%s", msg)
		}
		return nil
	}
}
