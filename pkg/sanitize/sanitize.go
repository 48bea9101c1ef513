// Package sanitize strips markup fragments from free text before it is stored.
// It does not replace output encoding when the text is rendered.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	tagDelimiters = regexp.MustCompile(`[<>]`)
	jsProtocol    = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandler  = regexp.MustCompile(`(?i)\bon[a-z]+\s*=`)
)

// Text removes tag delimiters, javascript: protocol strings and inline event
// handler attributes. Removal repeats until the string is stable so fragments
// cannot reassemble into a pattern.
func Text(s string) string {
	for {
		cleaned := tagDelimiters.ReplaceAllString(s, "")
		cleaned = jsProtocol.ReplaceAllString(cleaned, "")
		cleaned = eventHandler.ReplaceAllString(cleaned, "")
		if cleaned == s {
			break
		}
		s = cleaned
	}
	return strings.TrimSpace(s)
}

// Optional sanitizes a pointer field, leaving nil untouched.
func Optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := Text(*s)
	return &v
}
