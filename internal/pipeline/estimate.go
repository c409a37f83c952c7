package pipeline

import (
	"math"
	"strings"
)

// DefaultWordsPerMinute is the assumed narration reading speed.
const DefaultWordsPerMinute = 150

// minEstimatedDuration is the floor in seconds; very short texts would
// otherwise produce unusable near-zero durations.
const minEstimatedDuration = 10

// EstimateDuration approximates how many seconds of narration the text
// yields when read at wordsPerMinute.
//
// Words are counted by splitting on literal space characters only, so tabs
// and newlines do not separate words. This is deliberately weaker than the
// whitespace normalization GenerateCaptions performs, and the two counts
// diverge on text that mixes separator kinds.
func EstimateDuration(text string, wordsPerMinute float64) float64 {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	count := 0
	for _, w := range strings.Split(text, " ") {
		if w != "" {
			count++
		}
	}

	minutes := float64(count) / wordsPerMinute
	return math.Max(minutes*60, minEstimatedDuration)
}
