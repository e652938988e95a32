package slug

import (
	"regexp"
	"strings"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	disallowed  = regexp.MustCompile(`[^A-Za-z0-9_]`)
	underscores = regexp.MustCompile(`_+`)
	probable    = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// Milsim turns a display name into a URL slug: "The 168th Legion" becomes "The_168th_Legion"
func Milsim(name string) string {
	s := strings.TrimSpace(name)
	s = whitespace.ReplaceAllString(s, "_")
	s = disallowed.ReplaceAllString(s, "")
	return underscores.ReplaceAllString(s, "_")
}

// IsProbable reports whether s only consists of slug characters
func IsProbable(s string) bool {
	return probable.MatchString(s)
}
