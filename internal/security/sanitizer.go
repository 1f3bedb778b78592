package security

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

const maxInputLength = 1000

// SanitizeString trims whitespace, drops null bytes and caps the length.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if len(input) > maxInputLength {
		input = input[:maxInputLength]
		for !utf8.ValidString(input) {
			input = input[:len(input)-1]
		}
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeText turns free text (team names, member names, hints) into plain
// text: tags are stripped and the entities the policy emits are decoded, so
// "R&D" is stored as typed. Lookups by name go through the same function.
func SanitizeText(input string) string {
	return SanitizeString(html.UnescapeString(SanitizeHTML(input)))
}
