package htmlutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText strips non-printable characters and collapses runs of
// whitespace, the usual treatment for text pulled out of listing markup.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// FirstText evaluates selector candidates in order against sel and
// returns the cleaned text of the first one that yields anything
// non-empty. Used for markup that exists in several layout families.
func FirstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		text := CleanText(sel.Find(s).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// FirstAttr is FirstText for attributes.
func FirstAttr(sel *goquery.Selection, attr string, selectors ...string) string {
	for _, s := range selectors {
		val, ok := sel.Find(s).First().Attr(attr)
		if ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
