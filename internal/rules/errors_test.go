package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_KeepsFirstErrorPerField(t *testing.T) {
	ve := &ValidationError{}
	ve.Add("email", Fail(CodeRequired, "Email is required"))
	ve.Add("email", Fail(CodeFormatInvalid, "Invalid email"))
	ve.Add("phone", nil)

	require.Len(t, ve.Errors, 1)
	assert.Equal(t, CodeRequired, ve.Get("email").Code)
	assert.False(t, ve.Has("phone"))
}

func TestValidationError_Merge(t *testing.T) {
	inner := &ValidationError{}
	inner.Add("phone", Fail(CodeFormatInvalid, "Invalid phone format"))
	inner.Add("guardianContact.name", Fail(CodeRequired, "Guardian name required"))

	outer := &ValidationError{}
	outer.Merge("step4", inner)
	outer.Merge("step1", nil)

	assert.Equal(t, []string{"step4.guardianContact.name", "step4.phone"}, outer.Fields())
	assert.Equal(t, "Invalid phone format", outer.Messages()["step4.phone"])
}

func TestValidationError_OrNil(t *testing.T) {
	ve := &ValidationError{}
	assert.NoError(t, ve.OrNil())

	ve.Add("skills", Fail(CodeCountBelowMinimum, "Select at least 3 skills"))
	err := ve.OrNil()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1. skills: Select at least 3 skills")
}

func TestInputFrom(t *testing.T) {
	in, err := InputFrom(struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	}{Name: "Ada", Score: 3})
	require.NoError(t, err)
	assert.Equal(t, Input{"name": "Ada", "score": float64(3)}, in)

	in, err = InputFrom(nil)
	require.NoError(t, err)
	assert.Empty(t, in)
}

func TestStructuredReaders(t *testing.T) {
	in := Input{
		"list":  []any{"a", "b"},
		"bad":   []any{"a", 1.0},
		"map":   map[string]any{"a": "x", "b": nil},
		"obj":   map[string]any{"k": "v"},
		"flag":  true,
		"text":  "hello",
		"empty": nil,
	}

	list, present, f := StringList(in, "list")
	assert.Nil(t, f)
	assert.True(t, present)
	assert.Equal(t, []string{"a", "b"}, list)

	_, _, f = StringList(in, "bad")
	require.NotNil(t, f)
	assert.Equal(t, CodeFormatInvalid, f.Code)

	m, _, f := StringMap(in, "map")
	assert.Nil(t, f)
	assert.Equal(t, map[string]string{"a": "x"}, m)

	obj, present, f := Object(in, "obj")
	assert.Nil(t, f)
	assert.True(t, present)
	assert.Equal(t, Input{"k": "v"}, obj)

	_, _, f = Object(in, "text")
	require.NotNil(t, f)
	assert.Equal(t, "Expected object, received text", f.Message)

	b, _, f := Bool(in, "flag")
	assert.Nil(t, f)
	assert.True(t, b)

	_, present, f = String(in, "empty")
	assert.Nil(t, f)
	assert.False(t, present)
}
