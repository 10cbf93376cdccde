package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize lowercases a string and strips all whitespace so keyword
// matching is insensitive to spacing and casing. CJK text passes
// through untouched apart from whitespace removal.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Trim(s, " \n\t")
	s = whitespaceRegex.ReplaceAllString(s, "")
	return s
}

// ContainsAny reports whether the normalized form of s contains any of
// the given keywords. Keywords are expected to already be normalized.
func ContainsAny(s string, keywords []string) bool {
	s = Normalize(s)
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// FirstTitle takes the text before the first "/" delimiter and trims
// it. The origin site separates multi-language titles with slashes.
func FirstTitle(raw string) string {
	title, _, _ := strings.Cut(raw, "/")
	return strings.TrimSpace(title)
}
