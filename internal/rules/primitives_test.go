package rules

import (
	"math"
	"testing"
	"time"

	"github.com/jonathan/onboarding-wizard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirst_ReportsFirstInDeclarationOrder(t *testing.T) {
	calls := 0
	counting := func(code Code) Check[string] {
		return func(string) *Failure {
			calls++
			return Fail(code, "%s", code)
		}
	}

	f := First("x", counting(CodeFormatInvalid), counting(CodeOutOfRange))
	require.NotNil(t, f)
	assert.Equal(t, CodeFormatInvalid, f.Code)
	assert.Equal(t, 2, calls, "every check is evaluated")

	assert.Nil(t, First("x"))
}

func TestRequiredString_DistinguishesEmptyFromMissing(t *testing.T) {
	_, f := RequiredString(Input{}, "name", "Name is required")
	require.NotNil(t, f)
	assert.Equal(t, CodeRequired, f.Code)

	_, f = RequiredString(Input{"name": nil}, "name", "Name is required")
	require.NotNil(t, f)

	s, f := RequiredString(Input{"name": ""}, "name", "Name is required")
	assert.Nil(t, f)
	assert.Equal(t, "", s)
}

func TestStringChecks(t *testing.T) {
	tests := []struct {
		name  string
		check Check[string]
		value string
		code  Code
	}{
		{name: "non blank ok", check: NonBlank("x"), value: " a "},
		{name: "blank", check: NonBlank("x"), value: " \t ", code: CodeRequired},
		{name: "min length trims", check: MinLength(3, "x"), value: "  ab  ", code: CodeOutOfRange},
		{name: "min length counts runes", check: MinLength(3, "x"), value: "äöü"},
		{name: "max length trims", check: MaxLength(3, "x"), value: " abc "},
		{name: "max length", check: MaxLength(3, "x"), value: "abcd", code: CodeOutOfRange},
		{name: "two words", check: MinWords(2, "x"), value: "Ada  Lovelace"},
		{name: "one word", check: MinWords(2, "x"), value: " Ada ", code: CodeFormatInvalid},
		{name: "phone", check: Matches(PhonePattern, "x"), value: "+1-123-456-7890"},
		{name: "phone long country", check: Matches(PhonePattern, "x"), value: "+351-123-456-7890"},
		{name: "phone without plus", check: Matches(PhonePattern, "x"), value: "1-123-456-7890", code: CodeFormatInvalid},
		{name: "email", check: Email("x"), value: "ada@example.com"},
		{name: "email missing domain", check: Email("x"), value: "ada@", code: CodeFormatInvalid},
		{name: "one of", check: OneOf([]string{"a", "b"}, "x"), value: "b"},
		{name: "not one of", check: OneOf([]string{"a", "b"}, "x"), value: "c", code: CodeFormatInvalid},
		{name: "time of day", check: Matches(TimeOfDayPattern, "x"), value: "23:59"},
		{name: "time of day out of range", check: Matches(TimeOfDayPattern, "x"), value: "24:00", code: CodeFormatInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.check(tt.value)
			if tt.code == "" {
				assert.Nil(t, f)
				return
			}
			require.NotNil(t, f)
			assert.Equal(t, tt.code, f.Code)
		})
	}
}

func TestNumberChecks(t *testing.T) {
	assert.Nil(t, Between(1, 2, "x")(1))
	assert.Nil(t, Between(1, 2, "x")(2))
	assert.Equal(t, CodeOutOfRange, Between(1, 2, "x")(2.5).Code)
	assert.Nil(t, Whole("x")(3))
	assert.Equal(t, CodeFormatInvalid, Whole("x")(3.1).Code)
	assert.Nil(t, Equal(150, "x")(150))
	assert.Equal(t, CodeCrossDependency, WithCode(CodeCrossDependency, Equal(150, "x"))(100).Code)
}

func TestMinCount(t *testing.T) {
	assert.Equal(t, CodeCountBelowMinimum, MinCount(3, "x")([]string{"a", "b"}).Code)
	assert.Nil(t, MinCount(3, "x")([]string{"a", "b", "c"}))
}

func TestNumber_RejectsNaN(t *testing.T) {
	_, present, f := Number(Input{"n": math.NaN()}, "n")
	assert.True(t, present)
	require.NotNil(t, f)
	assert.Equal(t, CodeFormatInvalid, f.Code)

	_, _, f = Number(Input{"n": math.Inf(1)}, "n")
	require.NotNil(t, f)

	n, present, f := Number(Input{"n": 7}, "n")
	assert.Nil(t, f)
	assert.True(t, present)
	assert.Equal(t, float64(7), n)
}

func TestDateChecks(t *testing.T) {
	from := types.NewDate(2025, time.June, 15)
	to := types.NewDate(2025, time.September, 13)
	between := DateBetween(from, to, "x")

	assert.Nil(t, between(from))
	assert.Nil(t, between(to))
	assert.Equal(t, CodeOutOfRange, between(types.NewDate(2025, time.June, 14)).Code)

	notWeekend := NotOn([]time.Weekday{time.Friday, time.Saturday}, "x")
	assert.Equal(t, CodeCrossDependency, notWeekend(types.NewDate(2025, time.June, 20)).Code)
	assert.Nil(t, notWeekend(types.NewDate(2025, time.June, 22)))

	_, f := ParseDate("", "x")
	assert.Equal(t, CodeRequired, f.Code)
	_, f = ParseDate("2025-02-30", "x")
	assert.Equal(t, CodeFormatInvalid, f.Code)
	d, f := ParseDate("2025-06-15T08:30:00Z", "x")
	assert.Nil(t, f)
	assert.Equal(t, from, d)
}

func TestBefore(t *testing.T) {
	before := Before("x")
	assert.Nil(t, before([2]string{"09:00", "10:00"}))
	assert.Equal(t, CodeOutOfRange, before([2]string{"10:00", "09:00"}).Code)
	assert.NotNil(t, before([2]string{"09:00", "09:00"}))
}
