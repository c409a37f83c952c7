package pipeline

import (
	"math"
	"strings"
	"testing"
)

func TestGenerateCaptions_NineWordsFourPerSegment(t *testing.T) {
	segments, err := GenerateCaptions("The quick brown fox jumps over the lazy dog", 9, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}

	want := []Segment{
		{Start: 0, End: 4, Text: "The quick brown fox"},
		{Start: 4, End: 8, Text: "jumps over the lazy"},
		{Start: 8, End: 9, Text: "dog"},
	}
	for i, w := range want {
		got := segments[i]
		if got.Text != w.Text {
			t.Errorf("segment %d text = %q, want %q", i, got.Text, w.Text)
		}
		if math.Abs(got.Start-w.Start) > 1e-9 {
			t.Errorf("segment %d start = %v, want %v", i, got.Start, w.Start)
		}
		if math.Abs(got.End-w.End) > 1e-9 {
			t.Errorf("segment %d end = %v, want %v", i, got.End, w.End)
		}
	}
}

func TestGenerateCaptions_EmptyAndWhitespaceOnly(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n  \r\n"} {
		segments, err := GenerateCaptions(input, 10, 8)
		if err != nil {
			t.Errorf("input %q: unexpected error: %v", input, err)
		}
		if len(segments) != 0 {
			t.Errorf("input %q: expected empty sequence, got %d segments", input, len(segments))
		}
	}
}

func TestGenerateCaptions_SegmentCount(t *testing.T) {
	tests := []struct {
		words           int
		wordsPerSegment int
		want            int
	}{
		{1, DefaultWordsPerSegment, 1},
		{8, DefaultWordsPerSegment, 1},
		{9, DefaultWordsPerSegment, 2},
		{16, DefaultWordsPerSegment, 2},
		{17, DefaultWordsPerSegment, 3},
		{100, 6, 17},
	}

	for _, tt := range tests {
		text := strings.TrimSpace(strings.Repeat("word ", tt.words))
		segments, err := GenerateCaptions(text, 60, tt.wordsPerSegment)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(segments) != tt.want {
			t.Errorf("%d words / %d per segment: got %d segments, want %d",
				tt.words, tt.wordsPerSegment, len(segments), tt.want)
		}
	}
}

func TestGenerateCaptions_TimingInvariants(t *testing.T) {
	text := "one two three four five six seven eight nine ten eleven twelve thirteen"
	const totalDuration = 47.3

	segments, err := GenerateCaptions(text, totalDuration, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prevStart := math.Inf(-1)
	for i, seg := range segments {
		if seg.Start < prevStart {
			t.Errorf("segment %d start %v decreases from previous %v", i, seg.Start, prevStart)
		}
		prevStart = seg.Start
		if seg.End < seg.Start {
			t.Errorf("segment %d end %v < start %v", i, seg.End, seg.Start)
		}
		if seg.End > totalDuration {
			t.Errorf("segment %d end %v exceeds total duration %v", i, seg.End, totalDuration)
		}
	}

	// The clamp keeps the final segment inside the audio; rounding may
	// undershoot the exact total by an ulp but never exceed it.
	last := segments[len(segments)-1]
	if math.Abs(last.End-totalDuration) > 1e-9 {
		t.Errorf("final segment end = %v, want %v", last.End, totalDuration)
	}
}

func TestGenerateCaptions_WordRoundTrip(t *testing.T) {
	text := "  The\tquick   brown\nfox  jumps over\r\n the lazy  dog  "
	segments, err := GenerateCaptions(text, 12, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parts []string
	for _, seg := range segments {
		parts = append(parts, seg.Text)
	}
	got := strings.Join(parts, " ")
	want := strings.Join(strings.Fields(text), " ")
	if got != want {
		t.Errorf("joined caption text = %q, want %q", got, want)
	}
}

func TestGenerateCaptions_InvalidArguments(t *testing.T) {
	if _, err := GenerateCaptions("some words", 10, 0); err == nil {
		t.Error("expected error for wordsPerSegment=0")
	}
	if _, err := GenerateCaptions("some words", 10, -3); err == nil {
		t.Error("expected error for negative wordsPerSegment")
	}
	if _, err := GenerateCaptions("some words", -1, 8); err == nil {
		t.Error("expected error for negative totalDuration")
	}
}

func TestGenerateCaptions_ZeroDuration(t *testing.T) {
	// Degenerate but valid: every segment collapses to [0, 0].
	segments, err := GenerateCaptions("a b c", 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, seg := range segments {
		if seg.Start != 0 || seg.End != 0 {
			t.Errorf("segment %d = [%v, %v], want [0, 0]", i, seg.Start, seg.End)
		}
	}
}

func TestSegmentAt(t *testing.T) {
	segments, err := GenerateCaptions("The quick brown fox jumps over the lazy dog", 9, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		t      float64
		want   string
		wantOK bool
	}{
		{0, "The quick brown fox", true},
		{3.9, "The quick brown fox", true},
		{4, "The quick brown fox", true}, // boundary belongs to the earlier segment
		{5, "jumps over the lazy", true},
		{9, "dog", true},
		{9.5, "", false},
		{-1, "", false},
	}

	for _, tt := range tests {
		seg, ok := SegmentAt(segments, tt.t)
		if ok != tt.wantOK {
			t.Errorf("SegmentAt(%v): ok = %v, want %v", tt.t, ok, tt.wantOK)
			continue
		}
		if ok && seg.Text != tt.want {
			t.Errorf("SegmentAt(%v) = %q, want %q", tt.t, seg.Text, tt.want)
		}
	}
}

func TestSegmentDuration(t *testing.T) {
	seg := Segment{Start: 1.5, End: 4}
	if d := seg.Duration(); math.Abs(d-2.5) > 1e-9 {
		t.Errorf("Duration() = %v, want 2.5", d)
	}
}
