// Package timeutil parses the optional duration strings used throughout the
// YAML configuration.
package timeutil

import (
	"strings"
	"time"
)

// ParseDurationOrDefault returns the parsed duration, or def when value is
// empty or malformed. Config validation rejects malformed durations up front,
// so the fallback mostly covers fields that were left out entirely.
func ParseDurationOrDefault(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	return def
}
