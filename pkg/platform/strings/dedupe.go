// Package strings normalizes multi-valued header input.
package strings

import (
	"strings"
)

// DedupeAndTrim trims each value and drops empties and repeats, keeping the
// first occurrence order.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// SplitDedupeAndTrim splits every value on sep before deduplicating, so
// repeated headers and comma-joined header lines yield the same set.
//
//	SplitDedupeAndTrim([]string{"a, b", "b", " c "}, ",")
//	// []string{"a", "b", "c"}
func SplitDedupeAndTrim(values []string, sep string) []string {
	var parts []string
	for _, v := range values {
		parts = append(parts, strings.Split(v, sep)...)
	}
	return DedupeAndTrim(parts)
}
