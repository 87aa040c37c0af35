package vision

import (
	"strings"
	"unicode/utf8"
)

// MaxDescriptionLen bounds drafted descriptions, in runes.
const MaxDescriptionLen = 600

// preambles are lead-ins models like to prepend; the sentence they start is
// kept, only the lead-in itself is dropped.
var preambles = []string{
	"Here is a short catalog description:",
	"Here is a catalog description:",
	"Here's a short description:",
	"Description:",
}

// ParseDescription normalizes a raw model response into a single paragraph
// suitable for an app description. It returns "" if nothing usable remains.
func ParseDescription(raw string) string {
	text := strings.TrimSpace(raw)
	for _, p := range preambles {
		if len(text) >= len(p) && strings.EqualFold(text[:len(p)], p) {
			text = strings.TrimSpace(text[len(p):])
			break
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	text = strings.Trim(text, `"`)

	if utf8.RuneCountInString(text) <= MaxDescriptionLen {
		return text
	}

	runes := []rune(text)[:MaxDescriptionLen]
	cut := string(runes)
	// Prefer ending on a sentence boundary when one exists in the kept text.
	if i := strings.LastIndex(cut, ". "); i > 0 {
		return cut[:i+1]
	}
	return strings.TrimSpace(cut)
}
