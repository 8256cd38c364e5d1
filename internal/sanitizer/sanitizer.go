// Package sanitizer cleans mention text before it reaches the tally.
package sanitizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxMentionSize bounds a single mention in bytes. Feed posts are far
// shorter; anything beyond is cut off.
const DefaultMaxMentionSize = 4096

// Mention repairs mention text without ever discarding it: invalid UTF-8
// becomes U+FFFD, text longer than limit bytes is truncated at a rune
// boundary, and control characters other than newline, tab and carriage
// return are stripped. A limit of zero or less uses DefaultMaxMentionSize.
func Mention(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultMaxMentionSize
	}
	text = strings.ToValidUTF8(text, "�")
	if len(text) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	// Fast path
	if strings.IndexFunc(text, unsafeControl) < 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !unsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}
