package pipeline

import (
	"strings"
	"unicode"
)

// speechReplacer maps typographic characters that PDF text layers commonly
// carry to plain forms a synthesis voice reads naturally.
var speechReplacer = strings.NewReplacer(
	"“", `"`, // “
	"”", `"`, // ”
	"‘", "'", // ‘
	"’", "'", // ’
	"–", "-", // –
	"—", " - ", // —
	"…", "...", // …
	" ", " ", // non-breaking space
	"­", "", // soft hyphen
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
)

// NormalizeForSpeech cleans extracted PDF text for synthesis: typographic
// punctuation and ligatures are replaced, control runes are dropped, and
// all whitespace runs collapse to single spaces with the ends trimmed.
func NormalizeForSpeech(text string) string {
	text = speechReplacer.Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
