package util

import "strings"

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// StringPtr returns nil for absent values.
func StringPtr(value string, ok bool) *string {
	if !ok {
		return nil
	}

	return &value
}

// IsTrue collapses a marker value to a boolean: only "true", in any case,
// is true.
func IsTrue(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

func TrimString(s string, length int) string {
	if len(s) <= length {
		return s
	}

	return strings.TrimSpace(s[:length])
}
