package dialogue

import (
	"strings"
	"unicode"
)

var quoteReplacer = strings.NewReplacer(
	`"`, "＂",
	`'`, "＇",
	`\`, "＼",
)

// Sanitize trims s, drops control characters other than newline and replaces
// quote and backslash characters with their full-width forms.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r != '\n' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return quoteReplacer.Replace(strings.TrimSpace(s))
}
