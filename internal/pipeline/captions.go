package pipeline

import (
	"fmt"
	"math"
	"strings"
)

// DefaultWordsPerSegment is the caption group size used when the caller
// does not override it.
const DefaultWordsPerSegment = 8

// GenerateCaptions partitions text into caption segments of at most
// wordsPerSegment words each and spreads totalDuration evenly across the
// words, so every segment's share of the timeline is proportional to its
// word count.
//
// Whitespace runs in text are collapsed before splitting; empty or
// whitespace-only input yields an empty sequence and no error. Segment
// boundaries are always computed fresh from the word index rather than by
// accumulating per-segment deltas, and the final segment's end is clamped
// to totalDuration so floating-point rounding can never push it past the
// end of the audio.
func GenerateCaptions(text string, totalDuration float64, wordsPerSegment int) ([]Segment, error) {
	if wordsPerSegment <= 0 {
		return nil, fmt.Errorf("words per segment must be positive, got %d", wordsPerSegment)
	}
	if totalDuration < 0 {
		return nil, fmt.Errorf("total duration must not be negative, got %g", totalDuration)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	timePerWord := totalDuration / float64(len(words))

	segments := make([]Segment, 0, (len(words)+wordsPerSegment-1)/wordsPerSegment)
	for i := 0; i < len(words); i += wordsPerSegment {
		end := min(i+wordsPerSegment, len(words))
		segments = append(segments, Segment{
			Start: float64(i) * timePerWord,
			End:   math.Min(float64(end)*timePerWord, totalDuration),
			Text:  strings.Join(words[i:end], " "),
		})
	}

	return segments, nil
}

// SegmentAt returns the first segment covering playback time t. A renderer
// shows a placeholder when ok is false.
func SegmentAt(segments []Segment, t float64) (Segment, bool) {
	for _, s := range segments {
		if s.Start <= t && t <= s.End {
			return s, true
		}
	}
	return Segment{}, false
}
