// Package strings provides list hygiene helpers for configured string sets
// such as hostname allow-lists and user-agent markers.
package strings

import (
	"strings"
)

// DedupeAndTrim trims whitespace from each element and drops empties and
// duplicates. Order of first occurrence is preserved.
func DedupeAndTrim(values []string) []string {
	return normalize(values, strings.TrimSpace)
}

// DedupeAndTrimLower is DedupeAndTrim with lowercasing, for sets matched
// case-insensitively (hostnames, user-agent markers).
func DedupeAndTrimLower(values []string) []string {
	return normalize(values, func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
}

func normalize(values []string, clean func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		c := clean(v)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
