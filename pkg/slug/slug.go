// Package slug derives URL-safe identifiers from display names.
//
// Uniqueness is NOT this package's job: callers must rely on the database
// unique index and retry with the next suffix on a unique violation. A
// check-then-write existence probe is racy under concurrent writers.
package slug

import (
	"strconv"
	"strings"
	"unicode"
)

// Fallback is used when normalization strips a name down to nothing.
const Fallback = "project"

// Make normalizes a display name into a base slug: lowercase, alphanumerics
// kept, whitespace runs collapsed into single hyphens, everything else
// dropped.
func Make(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingHyphen = true
		}
	}
	s := b.String()
	if s == "" {
		return Fallback
	}
	return s
}

// WithSuffix appends a collision counter to a base slug.
func WithSuffix(base string, n int) string {
	return base + "-" + strconv.Itoa(n)
}
