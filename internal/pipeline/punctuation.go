package pipeline

import (
	"strings"
	"unicode/utf8"
)

// sentenceTerminators end a sentence for chunking purposes.
var sentenceTerminators = map[rune]struct{}{
	'.': {}, '!': {}, '?': {},
	'。': {}, '！': {}, '？': {}, // 。！？
	'…': {}, // …
}

// clausePunctuation marks softer break points used when a line must be
// wrapped inside a sentence.
var clausePunctuation = map[rune]struct{}{
	',': {}, ';': {}, ':': {}, ')': {}, ']': {}, '}': {}, '-': {},
	'，': {}, '、': {}, '；': {}, '：': {}, // ，、；：
	'》': {}, '」': {}, '】': {}, '）': {}, // 》」】）
}

// endsSentence reports whether the word's final rune terminates a sentence.
func endsSentence(word string) bool {
	word = strings.TrimSpace(word)
	if word == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(word)
	if r == utf8.RuneError {
		return false
	}
	_, ok := sentenceTerminators[r]
	return ok
}

// isBreakRune reports whether a rune is acceptable as a wrap point.
func isBreakRune(r rune) bool {
	if _, ok := sentenceTerminators[r]; ok {
		return true
	}
	_, ok := clausePunctuation[r]
	return ok
}

// findSplitPosition finds the best rune index to split text at or before
// maxLen, preferring a space, then punctuation, then a hard cut.
func findSplitPosition(text string, maxLen int) int {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return len(runes)
	}

	searchEnd := min(maxLen+1, len(runes))

	bestPos := -1
	for i := searchEnd - 1; i > 0; i-- {
		r := runes[i]
		if r == ' ' {
			bestPos = i
			break
		}
		if isBreakRune(r) {
			bestPos = i + 1
			break
		}
	}

	if bestPos <= 0 {
		bestPos = maxLen
	}
	return bestPos
}
