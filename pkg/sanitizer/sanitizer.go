// Package sanitizer normalizes caller-supplied guest contact fields before
// validation so equivalent inputs compare and store identically.
package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reCollapseSpace = regexp.MustCompile(`\s+`)
	reNameAllowed   = regexp.MustCompile(`[^\p{L}\p{M}' .\-]+`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func collapseSpaces(s string) string {
	return reCollapseSpace.ReplaceAllString(s, " ")
}

// SanitizeGuestName strips characters that have no place in a person's name
// and collapses runs of whitespace.
func SanitizeGuestName(input string) string {
	p := Pipeline{
		trim,
		func(s string) string { return reNameAllowed.ReplaceAllString(s, "") },
		collapseSpaces,
		trim,
	}
	return p.Apply(input)
}

func SanitizeEmail(input string) string {
	p := Pipeline{
		trim,
		strings.ToLower,
	}
	return p.Apply(input)
}
