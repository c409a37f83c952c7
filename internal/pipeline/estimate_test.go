package pipeline

import (
	"math"
	"strings"
	"testing"
)

func TestEstimateDuration_FloorForShortText(t *testing.T) {
	got := EstimateDuration("one two three", 150)
	if got != 10 {
		t.Errorf("EstimateDuration(3 words, 150 wpm) = %v, want 10 (floor)", got)
	}
}

func TestEstimateDuration_ThreeHundredWords(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 300))
	got := EstimateDuration(text, 150)
	if math.Abs(got-120) > 1e-9 {
		t.Errorf("EstimateDuration(300 words, 150 wpm) = %v, want 120", got)
	}
}

func TestEstimateDuration_EmptyText(t *testing.T) {
	if got := EstimateDuration("", 150); got != 10 {
		t.Errorf("EstimateDuration(\"\") = %v, want 10", got)
	}
	if got := EstimateDuration("     ", 150); got != 10 {
		t.Errorf("EstimateDuration(spaces) = %v, want 10", got)
	}
}

func TestEstimateDuration_SplitsOnLiteralSpacesOnly(t *testing.T) {
	// Newline-joined words count as a single token; this tokenization is
	// intentionally weaker than the caption allocator's.
	spaced := strings.TrimSpace(strings.Repeat("word ", 300))
	newlined := strings.TrimSpace(strings.Repeat("word\nword ", 150))

	if got := EstimateDuration(spaced, 150); math.Abs(got-120) > 1e-9 {
		t.Fatalf("spaced estimate = %v, want 120", got)
	}
	// 150 tokens of "word\nword" -> 60 seconds.
	if got := EstimateDuration(newlined, 150); math.Abs(got-60) > 1e-9 {
		t.Errorf("newlined estimate = %v, want 60", got)
	}
}

func TestEstimateDuration_NonPositiveRateUsesDefault(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 300))
	got := EstimateDuration(text, 0)
	want := EstimateDuration(text, DefaultWordsPerMinute)
	if got != want {
		t.Errorf("EstimateDuration with wpm=0 = %v, want %v", got, want)
	}
}
