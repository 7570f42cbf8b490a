package validation

import (
	"sort"

	"github.com/jonathan/onboarding-wizard/internal/rules"
)

// text reads a required string field and runs checks against it, recording the
// first failure under path. It returns the raw value so that the record keeps
// exactly what was entered.
func text(ve *rules.ValidationError, path string, in rules.Input, key, requiredMsg string, checks ...rules.Check[string]) (string, bool) {
	s, f := rules.RequiredString(in, key, requiredMsg)
	if f != nil {
		ve.Add(path, f)
		return "", false
	}
	if f := rules.First(s, checks...); f != nil {
		ve.Add(path, f)
		return s, false
	}
	return s, true
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
