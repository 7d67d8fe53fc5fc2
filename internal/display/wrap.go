package display

import (
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultWidth = 80

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return WrapTo(text, DefaultWidth)
}

// WrapTo word-wraps text to width columns. Zero or less leaves it alone.
func WrapTo(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return Title(s[:1]) + s[1:]
}

// Title uppercases the first letter of every word, as for a room name.
// Casers hold state, so each call gets its own.
func Title(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}
