// Package query parses repeated and comma-separated URL query values.
package query

import (
	"strconv"
	"strings"
)

// StringSlice splits a comma-separated query value into trimmed parts.
// Empty parts are dropped; an empty input yields nil.
func StringSlice(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// IntSlice converts repeated query values to integers, skipping any
// value that does not parse.
func IntSlice(raw []string) []int {
	var out []int
	for _, value := range raw {
		if parsed, err := strconv.Atoi(value); err == nil {
			out = append(out, parsed)
		}
	}
	return out
}
