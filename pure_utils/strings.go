package pure_utils

import (
	"strings"

	"github.com/hashicorp/go-set/v2"
)

// DedupCaseInsensitive trims every value, drops empties, and keeps the first
// occurrence of each value compared case-insensitively, preserving first-seen
// order. "Spa" followed by "spa" yields just "Spa".
func DedupCaseInsensitive(values []string) []string {
	seen := set.New[string](len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen.Contains(key) {
			continue
		}
		seen.Insert(key)
		out = append(out, v)
	}
	return out
}

// ContainsCaseInsensitive reports whether value is already present in values
// under case-insensitive comparison.
func ContainsCaseInsensitive(values []string, value string) bool {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// ContainsSameElements reports whether two slices hold the same values,
// ignoring order and duplicates.
func ContainsSameElements[T comparable](a, b []T) bool {
	return set.From(a).Equal(set.From(b))
}
