package pipeline

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkChars bounds the fragment size sent to a single synthesis
// call.
const DefaultChunkChars = 2400

// SplitChunks partitions text into fragments of at most maxChars runes for
// downstream synthesis calls. Breaks fall on sentence ends where possible,
// then on word boundaries; only a single word longer than maxChars is ever
// split mid-word. Rejoining the chunks with single spaces reproduces the
// word sequence of the (whitespace-collapsed) input.
func SplitChunks(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultChunkChars
	}

	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentLen = 0
		}
	}

	for _, sentence := range splitSentences(text) {
		sentLen := utf8.RuneCountInString(sentence)

		if sentLen > maxChars {
			flush()
			chunks = append(chunks, splitLongSentence(sentence, maxChars)...)
			continue
		}

		sep := 0
		if currentLen > 0 {
			sep = 1
		}
		if currentLen+sep+sentLen > maxChars {
			flush()
			sep = 0
		}
		current = append(current, sentence)
		currentLen += sep + sentLen
	}
	flush()

	return chunks
}

// splitSentences groups words into sentences, keeping the terminating
// punctuation attached. Text without terminators comes back as one group.
func splitSentences(text string) []string {
	var sentences []string
	var current []string

	for _, word := range strings.Fields(text) {
		current = append(current, word)
		if endsSentence(word) {
			sentences = append(sentences, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		sentences = append(sentences, strings.Join(current, " "))
	}

	return sentences
}

// splitLongSentence breaks an oversized sentence on word boundaries, and a
// single oversized word into fixed-size rune slices.
func splitLongSentence(sentence string, maxChars int) []string {
	var parts []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) > 0 {
			parts = append(parts, strings.Join(current, " "))
			current = nil
			currentLen = 0
		}
	}

	for _, word := range strings.Fields(sentence) {
		wordLen := utf8.RuneCountInString(word)

		if wordLen > maxChars {
			flush()
			runes := []rune(word)
			for len(runes) > maxChars {
				parts = append(parts, string(runes[:maxChars]))
				runes = runes[maxChars:]
			}
			if len(runes) > 0 {
				current = []string{string(runes)}
				currentLen = len(runes)
			}
			continue
		}

		sep := 0
		if currentLen > 0 {
			sep = 1
		}
		if currentLen+sep+wordLen > maxChars {
			flush()
			sep = 0
		}
		current = append(current, word)
		currentLen += sep + wordLen
	}
	flush()

	return parts
}
