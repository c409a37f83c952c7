package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/vihananand1/pdf-speak-out/internal/config"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractFile(path string) (string, error) {
	return f.text, f.err
}

type fakeSynth struct {
	calls   atomic.Int32
	failN   int32 // fail the first failN calls
	failErr error
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	n := f.calls.Add(1)
	if n <= f.failN {
		return nil, f.failErr
	}
	return []byte("AUDIO:" + text), nil
}

func TestDeriveOutputPaths(t *testing.T) {
	paths := deriveOutputPaths("/docs/report.pdf", "")
	if paths.audio != "/docs/report_narration.mp3" {
		t.Errorf("audio = %q", paths.audio)
	}
	if paths.srt != "/docs/report.srt" {
		t.Errorf("srt = %q", paths.srt)
	}
	if paths.vtt != "/docs/report.vtt" {
		t.Errorf("vtt = %q", paths.vtt)
	}
	if paths.video != "/docs/report.mp4" {
		t.Errorf("video = %q", paths.video)
	}

	paths = deriveOutputPaths("/docs/report.pdf", "/out")
	if paths.srt != "/out/report.srt" {
		t.Errorf("srt with output dir = %q", paths.srt)
	}
}

func TestRun_AudioAndCaptions(t *testing.T) {
	dir := t.TempDir()

	opts := Options{
		InputPath:   filepath.Join(dir, "doc.pdf"),
		OutputDir:   dir,
		Duration:    12, // skip probing
		WriteVTT:    true,
		Settings:    config.Default(),
		Extractor:   &fakeExtractor{text: "One two three. Four five six seven eight nine ten eleven twelve."},
		Synthesizer: &fakeSynth{},
	}

	outputs, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	audio, err := os.ReadFile(outputs.AudioPath)
	if err != nil {
		t.Fatalf("read audio: %v", err)
	}
	if !strings.HasPrefix(string(audio), "AUDIO:") {
		t.Errorf("unexpected audio content %q", audio)
	}

	srt, err := os.ReadFile(outputs.SRTPath)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	if !strings.Contains(string(srt), "-->") {
		t.Errorf("SRT content missing timecodes:\n%s", srt)
	}

	vtt, err := os.ReadFile(outputs.VTTPath)
	if err != nil {
		t.Fatalf("read vtt: %v", err)
	}
	if !strings.HasPrefix(string(vtt), "WEBVTT") {
		t.Errorf("VTT content missing header:\n%s", vtt)
	}

	if outputs.VideoPath != "" {
		t.Errorf("expected no video without a background, got %q", outputs.VideoPath)
	}
}

func TestRun_CaptionsOnly(t *testing.T) {
	dir := t.TempDir()

	// 300 words at the default 150 wpm estimate to 120 seconds.
	text := strings.TrimSpace(strings.Repeat("word ", 300))

	opts := Options{
		InputPath: filepath.Join(dir, "doc.pdf"),
		OutputDir: dir,
		Settings:  config.Default(),
		Extractor: &fakeExtractor{text: text},
	}

	outputs, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outputs.AudioPath != "" {
		t.Errorf("expected no audio without a synthesizer, got %q", outputs.AudioPath)
	}

	srt, err := os.ReadFile(outputs.SRTPath)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	// 300 words / 6 per segment = 50 blocks; the last ends at 02:00.
	if !strings.Contains(string(srt), "\n50\n") {
		t.Errorf("expected 50 caption blocks:\n%s", srt[:200])
	}
	if !strings.Contains(string(srt), "00:02:00,000") {
		t.Errorf("expected final timecode 00:02:00,000")
	}
}

func TestRun_RejectsNonVideoBackground(t *testing.T) {
	dir := t.TempDir()
	bg := filepath.Join(dir, "background.txt")
	if err := os.WriteFile(bg, []byte("not a video"), 0644); err != nil {
		t.Fatal(err)
	}

	synth := &fakeSynth{}
	opts := Options{
		InputPath:      filepath.Join(dir, "doc.pdf"),
		OutputDir:      dir,
		BackgroundPath: bg,
		Duration:       12,
		Settings:       config.Default(),
		Extractor:      &fakeExtractor{text: "some words here"},
		Synthesizer:    synth,
	}

	_, err := Run(context.Background(), opts)
	if err == nil {
		t.Fatal("expected error for non-video background")
	}
	if !strings.Contains(err.Error(), "unsupported extension") {
		t.Errorf("error should name the extension: %v", err)
	}
	if got := synth.calls.Load(); got != 0 {
		t.Errorf("synthesize called %d times before the background check", got)
	}
}

func TestRun_RejectsMissingBackground(t *testing.T) {
	dir := t.TempDir()

	opts := Options{
		InputPath:      filepath.Join(dir, "doc.pdf"),
		OutputDir:      dir,
		BackgroundPath: filepath.Join(dir, "nope.mp4"),
		Duration:       12,
		Settings:       config.Default(),
		Extractor:      &fakeExtractor{text: "some words here"},
		Synthesizer:    &fakeSynth{},
	}

	if _, err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected error for missing background file")
	}
}

func TestRun_AudioOnlySkipsBackgroundCheck(t *testing.T) {
	dir := t.TempDir()

	opts := Options{
		InputPath:      filepath.Join(dir, "doc.pdf"),
		OutputDir:      dir,
		BackgroundPath: filepath.Join(dir, "nope.txt"),
		Duration:       12,
		AudioOnly:      true,
		Settings:       config.Default(),
		Extractor:      &fakeExtractor{text: "some words here"},
		Synthesizer:    &fakeSynth{},
	}

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("audio-only run should ignore the background: %v", err)
	}
}

func TestRun_ExtractionError(t *testing.T) {
	opts := Options{
		InputPath: "doc.pdf",
		OutputDir: t.TempDir(),
		Settings:  config.Default(),
		Extractor: &fakeExtractor{err: errors.New("broken xref table")},
	}

	if _, err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected extraction error")
	}
}

func TestRun_EmptyText(t *testing.T) {
	opts := Options{
		InputPath: "doc.pdf",
		OutputDir: t.TempDir(),
		Settings:  config.Default(),
		Extractor: &fakeExtractor{text: "  \n\t "},
	}

	if _, err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected error for empty text layer")
	}
}

func TestRun_NegativeDurationOverride(t *testing.T) {
	opts := Options{
		InputPath: "doc.pdf",
		OutputDir: t.TempDir(),
		Duration:  -5,
		Settings:  config.Default(),
		Extractor: &fakeExtractor{text: "some words here"},
	}

	if _, err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestNarrationPartPaths(t *testing.T) {
	paths := narrationPartPaths("/out/report_narration.mp3", "", 2)
	want := []string{
		"/out/report_narration_part_000.mp3",
		"/out/report_narration_part_001.mp3",
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("part %d = %q, want %q", i, paths[i], want[i])
		}
	}

	// With a temp dir the parts move there; the final output does not.
	paths = narrationPartPaths("/out/report_narration.mp3", "/tmp/work", 1)
	if paths[0] != "/tmp/work/report_narration_part_000.mp3" {
		t.Errorf("temp part = %q", paths[0])
	}
}

func TestSynthesizeSequential_PreservesOrder(t *testing.T) {
	chunks := []string{"alpha", "beta", "gamma"}

	parts, err := synthesizeSequential(context.Background(), chunks, &fakeSynth{})
	if err != nil {
		t.Fatalf("synthesizeSequential: %v", err)
	}
	if len(parts) != 3 {
		t.Fatalf("got %d parts, want 3", len(parts))
	}
	for i, chunk := range chunks {
		want := "AUDIO:" + chunk
		if string(parts[i]) != want {
			t.Errorf("part %d = %q, want %q", i, parts[i], want)
		}
	}
}

func TestSynthesizeWithRetry_RecoversAfterFailure(t *testing.T) {
	synth := &fakeSynth{failN: 1, failErr: errors.New("throttled")}

	audio, err := synthesizeWithRetry(context.Background(), synth, "text", 1, 1, 3)
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if string(audio) != "AUDIO:text" {
		t.Errorf("audio = %q", audio)
	}
	if got := synth.calls.Load(); got != 2 {
		t.Errorf("synthesize called %d times, want 2", got)
	}
}

func TestSynthesizeWithRetry_GivesUp(t *testing.T) {
	synth := &fakeSynth{failN: 100, failErr: errors.New("down")}

	_, err := synthesizeWithRetry(context.Background(), synth, "text", 2, 4, 1)
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if !strings.Contains(err.Error(), "2/4") {
		t.Errorf("error should name the chunk: %v", err)
	}
}

func TestOrderResults(t *testing.T) {
	results := []chunkResult{
		{Index: 2, Audio: []byte("c")},
		{Index: 0, Audio: []byte("a")},
		{Index: 1, Audio: []byte("b")},
	}

	parts := orderResults(results)
	got := ""
	for _, p := range parts {
		got += string(p)
	}
	if got != "abc" {
		t.Errorf("ordered parts = %q, want 'abc'", got)
	}
}
