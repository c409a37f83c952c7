package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vihananand1/pdf-speak-out/internal/config"
	"github.com/vihananand1/pdf-speak-out/internal/ffmpeg"
	"github.com/vihananand1/pdf-speak-out/internal/pipeline"
	"github.com/vihananand1/pdf-speak-out/internal/tts"
)

// TextExtractor provides the text layer of a PDF file. It is injected so
// the extraction capability is resolved at startup, not inside the run.
type TextExtractor interface {
	ExtractFile(path string) (string, error)
}

// Options configures the worker.
type Options struct {
	InputPath      string
	OutputDir      string  // defaults to the input file's directory
	BackgroundPath string  // optional looping background video
	Duration       float64 // caption timeline override in seconds; 0 = probe/estimate
	WriteVTT       bool
	AudioOnly      bool // skip video composition even when a background is set
	NoAsync        bool

	// TempDir, when set, receives the intermediate per-chunk audio files.
	// Otherwise they are written next to the output and removed after the
	// join.
	TempDir string

	Settings *config.Config

	Extractor   TextExtractor
	Synthesizer tts.Synthesizer // nil in captions-only mode
}

// Outputs names the files a run produced.
type Outputs struct {
	AudioPath string
	SRTPath   string
	VTTPath   string
	VideoPath string
}

// Run is the top-level orchestrator: extract, normalize, synthesize,
// caption, compose.
func Run(ctx context.Context, opts Options) (*Outputs, error) {
	cfg := opts.Settings
	if cfg == nil {
		cfg = config.Default()
	}

	paths := deriveOutputPaths(opts.InputPath, opts.OutputDir)

	// Catch a bad background up front rather than after minutes of
	// synthesis calls.
	if opts.BackgroundPath != "" && !opts.AudioOnly {
		if err := validateBackground(opts.BackgroundPath); err != nil {
			return nil, err
		}
	}

	slog.Info("processing file", "input", filepath.Base(opts.InputPath))

	text, err := extractNarrationText(opts)
	if err != nil {
		return nil, err
	}

	chunks := pipeline.SplitChunks(text, cfg.Narration.MaxChunkChars)
	slog.Info("text prepared", "words", len(strings.Fields(text)), "chunks", len(chunks))

	outputs := &Outputs{}

	if opts.Synthesizer != nil {
		if err := synthesizeNarration(ctx, chunks, paths.audio, opts, cfg); err != nil {
			return nil, err
		}
		outputs.AudioPath = paths.audio
	}

	duration, err := resolveDuration(ctx, text, outputs.AudioPath, opts.Duration, cfg)
	if err != nil {
		return nil, err
	}

	slog.Info("generating captions",
		"duration_sec", fmt.Sprintf("%.1f", duration),
		"words_per_segment", cfg.Narration.WordsPerSegment)

	segments, err := pipeline.GenerateCaptions(text, duration, cfg.Narration.WordsPerSegment)
	if err != nil {
		return nil, fmt.Errorf("generate captions: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no caption segments produced")
	}

	srtContent := pipeline.FormatSRT(segments, cfg.Narration.MaxCharsPerLine)
	if err := os.WriteFile(paths.srt, []byte(srtContent), 0644); err != nil {
		return nil, fmt.Errorf("write SRT file: %w", err)
	}
	outputs.SRTPath = paths.srt
	slog.Info("captions saved", "path", paths.srt, "segments", len(segments))

	if opts.WriteVTT {
		vttContent := pipeline.FormatVTT(segments, cfg.Narration.MaxCharsPerLine)
		if err := os.WriteFile(paths.vtt, []byte(vttContent), 0644); err != nil {
			return nil, fmt.Errorf("write VTT file: %w", err)
		}
		outputs.VTTPath = paths.vtt
	}

	if opts.BackgroundPath != "" && !opts.AudioOnly && outputs.AudioPath != "" {
		if !ffmpeg.Available() {
			return nil, fmt.Errorf("ffmpeg not found: required for video composition")
		}
		err := ffmpeg.ComposeVideo(ctx, ffmpeg.ComposeOptions{
			BackgroundPath: opts.BackgroundPath,
			AudioPath:      outputs.AudioPath,
			CaptionsPath:   paths.srt,
			OutputPath:     paths.video,
			Encoder:        cfg.Video.Encoder,
			VideoBitrate:   cfg.Video.VideoBitrate,
			Preset:         cfg.Video.Preset,
		})
		if err != nil {
			return nil, fmt.Errorf("compose video: %w", err)
		}
		outputs.VideoPath = paths.video
		slog.Info("video saved", "path", paths.video)
		ffmpeg.LogMediaInfo(ctx, paths.video)
	}

	return outputs, nil
}

type outputPaths struct {
	audio string
	srt   string
	vtt   string
	video string
}

// deriveOutputPaths maps the input PDF name onto the output artifacts.
func deriveOutputPaths(inputPath, outputDir string) outputPaths {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	stem := filepath.Join(dir, base)
	return outputPaths{
		audio: stem + "_narration.mp3",
		srt:   stem + ".srt",
		vtt:   stem + ".vtt",
		video: stem + ".mp4",
	}
}

// validateBackground rejects a background path that does not exist or does
// not look like a video container before any synthesis work starts.
func validateBackground(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("background video: %w", err)
	}
	if ext := filepath.Ext(path); !ffmpeg.IsVideoExtension(ext) {
		return fmt.Errorf("background video %s: unsupported extension %q", filepath.Base(path), ext)
	}
	return nil
}

// extractNarrationText pulls the text layer out of the input and cleans it
// for synthesis.
func extractNarrationText(opts Options) (string, error) {
	raw, err := opts.Extractor.ExtractFile(opts.InputPath)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	text := pipeline.NormalizeForSpeech(raw)
	if text == "" {
		return "", fmt.Errorf("pdf text is empty after normalization")
	}
	return text, nil
}

// synthesizeNarration converts the chunks to audio and joins them into a
// single narration track at audioPath.
func synthesizeNarration(ctx context.Context, chunks []string, audioPath string, opts Options, cfg *config.Config) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no text chunks to synthesize")
	}
	if len(chunks) > 1 && !ffmpeg.Available() {
		return fmt.Errorf("ffmpeg not found: required to join %d narration chunks", len(chunks))
	}

	var parts [][]byte
	var err error
	if !opts.NoAsync && len(chunks) > 1 {
		parts, err = synthesizeConcurrent(ctx, chunks, opts, cfg)
	} else {
		parts, err = synthesizeSequential(ctx, chunks, opts.Synthesizer)
	}
	if err != nil {
		return err
	}

	if len(parts) == 1 {
		if err := os.WriteFile(audioPath, parts[0], 0644); err != nil {
			return fmt.Errorf("write narration audio: %w", err)
		}
		slog.Info("narration audio saved", "path", audioPath)
		return nil
	}

	// Write the parts out, join, clean up.
	partPaths := narrationPartPaths(audioPath, opts.TempDir, len(parts))
	for i, data := range parts {
		if err := os.WriteFile(partPaths[i], data, 0644); err != nil {
			cleanupParts(partPaths[:i])
			return fmt.Errorf("write narration part %d: %w", i, err)
		}
	}
	defer cleanupParts(partPaths)

	if err := ffmpeg.ConcatAudio(ctx, partPaths, audioPath); err != nil {
		return fmt.Errorf("join narration audio: %w", err)
	}
	slog.Info("narration audio saved", "path", audioPath, "parts", len(parts))
	return nil
}

// narrationPartPaths names the intermediate per-chunk audio files. Parts
// land in tempDir when it is set, next to the output otherwise.
func narrationPartPaths(audioPath, tempDir string, n int) []string {
	stem := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	if tempDir != "" {
		stem = filepath.Join(tempDir, filepath.Base(stem))
	}
	paths := make([]string, n)
	for i := range paths {
		paths[i] = fmt.Sprintf("%s_part_%03d.mp3", stem, i)
	}
	return paths
}

// resolveDuration picks the caption timeline length: an explicit override
// wins, then the probed length of the synthesized audio, then the
// reading-speed estimate.
func resolveDuration(ctx context.Context, text, audioPath string, override float64, cfg *config.Config) (float64, error) {
	if override < 0 {
		return 0, fmt.Errorf("duration must not be negative, got %g", override)
	}
	if override > 0 {
		return override, nil
	}

	if audioPath != "" {
		if info, err := ffmpeg.ProbeMedia(ctx, audioPath); err == nil && info.Duration > 0 {
			return info.Duration, nil
		} else if err != nil {
			slog.Debug("audio probe failed, falling back to estimate", "err", err)
		}
	}

	return pipeline.EstimateDuration(text, cfg.Narration.WordsPerMinute), nil
}

func cleanupParts(parts []string) {
	for _, p := range parts {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			slog.Debug("cleanup part", "file", filepath.Base(p), "err", err)
		}
	}
}
