package util

import (
	"fmt"
	"strings"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// ParseSize parses a human-readable size string (e.g. "25MB", "512KB", "1GB")
// into bytes. Returns defaultBytes if the string cannot be parsed.
func ParseSize(s string, defaultBytes int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return defaultBytes
	}

	var multiplier int64 = 1
	for _, unit := range []struct {
		suffix string
		mult   int64
	}{{"GB", gib}, {"MB", mib}, {"KB", kib}, {"B", 1}} {
		if strings.HasSuffix(s, unit.suffix) {
			multiplier = unit.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			break
		}
	}

	var val int64
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil || val < 0 {
		return defaultBytes
	}
	return val * multiplier
}

// FormatSize renders n bytes in the largest whole unit ParseSize accepts.
func FormatSize(n int64) string {
	switch {
	case n >= gib && n%gib == 0:
		return fmt.Sprintf("%dGB", n/gib)
	case n >= mib && n%mib == 0:
		return fmt.Sprintf("%dMB", n/mib)
	case n >= kib && n%kib == 0:
		return fmt.Sprintf("%dKB", n/kib)
	default:
		return fmt.Sprintf("%dB", n)
	}
}

// MaskSecret hides sensitive parts of a string for safe display in logs.
// If the string is shorter than visiblePrefix, it is fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
