package downloader

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const fallbackTitle = "download"

// SafeTitle reduces an arbitrary track title to a filesystem-safe name.
// Unicode is folded to its compatibility form first so full-width and
// composed characters survive as their plain equivalents, then everything
// outside letters, digits, spaces, and a small punctuation set is dropped.
func SafeTitle(title string) string {
	folded := norm.NFKC.String(title)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		return fallbackTitle
	}
	return cleaned
}

// SafeFilename builds the client-facing download name from a title and the
// configured audio format.
func SafeFilename(title, audioFormat string) string {
	ext := strings.TrimPrefix(strings.TrimSpace(audioFormat), ".")
	if ext == "" {
		ext = "mp3"
	}
	return SafeTitle(title) + "." + ext
}
