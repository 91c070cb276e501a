package datasets

import "strings"

// IgnoreObjects drops records belonging to the listed operators or lines.
// Entries match either the raw reference or the last path segment of a URI.
type IgnoreObjects struct {
	Operators []string
	Lines     []string
}

func (i IgnoreObjects) IgnoresOperator(ref *string) bool {
	return matchesAny(ref, i.Operators)
}

func (i IgnoreObjects) IgnoresLine(ref *string) bool {
	return matchesAny(ref, i.Lines)
}

func matchesAny(ref *string, ignored []string) bool {
	if ref == nil || *ref == "" {
		return false
	}

	for _, value := range ignored {
		if *ref == value || strings.HasSuffix(*ref, "/"+value) {
			return true
		}
	}

	return false
}
