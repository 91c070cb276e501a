package util

import (
	"strconv"
	"strings"
)

// ParseFloat returns nil when the value is absent or not numeric.
func ParseFloat(value string, ok bool) *float64 {
	if !ok {
		return nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil
	}

	return &f
}

// ParseSequence accepts only unsigned decimal digits.
func ParseSequence(value string, ok bool) *int {
	if !ok || value == "" {
		return nil
	}

	for _, r := range value {
		if r < '0' || r > '9' {
			return nil
		}
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}

	return &n
}
