package sanitizer

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMention_SizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		limit   int
		wantLen int
	}{
		{"Under Default", strings.Repeat("a", DefaultMaxMentionSize-1), 0, DefaultMaxMentionSize - 1},
		{"Exact Default", strings.Repeat("a", DefaultMaxMentionSize), 0, DefaultMaxMentionSize},
		{"Over Default", strings.Repeat("a", DefaultMaxMentionSize+1), 0, DefaultMaxMentionSize},
		{"Custom Limit", "left" + strings.Repeat("!", 20), 10, 10},
		// "é" is two bytes; a cut in its middle backs off to the rune start.
		{"Rune Boundary", "left" + strings.Repeat("é", 10), 9, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mention(tt.input, tt.limit)
			if len(got) != tt.wantLen {
				t.Errorf("expected %d bytes, got %d", tt.wantLen, len(got))
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncation produced invalid UTF-8: %q", got)
			}
			if !strings.HasPrefix(got, tt.input[:min(4, len(tt.input))]) {
				t.Errorf("prefix lost: %q", got)
			}
		})
	}
}

func TestMention_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "go north", "go north"},
		{"Safe Controls", "north\nplease\tnow", "north\nplease\tnow"},
		{"ANSI Code", "\x1b[31mnorth\x1b[0m", "[31mnorth[0m"},
		{"Null Byte", "no\x00rth", "north"},
		{"Bell", "south\x07", "south"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mention(tt.input, 0); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestMention_InvalidUTF8IsRepaired(t *testing.T) {
	if got := Mention("north\xff", 0); got != "north�" {
		t.Errorf("expected %q, got %q", "north�", got)
	}
}
