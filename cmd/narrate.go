package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/vihananand1/pdf-speak-out/internal/config"
	"github.com/vihananand1/pdf-speak-out/internal/pdftext"
	"github.com/vihananand1/pdf-speak-out/internal/tts"
	"github.com/vihananand1/pdf-speak-out/internal/worker"

	"github.com/spf13/cobra"
)

var narrateCmd = &cobra.Command{
	Use:   "narrate <input-file>",
	Short: "Convert a PDF into narration audio, captions, and optionally video",
	Long: `Narrate extracts the text layer of a PDF, synthesizes speech for it via
the ElevenLabs text-to-speech API, writes timed SRT captions, and — when a
background video is given — composes the final captioned MP4.`,
	Args: cobra.ExactArgs(1),
	RunE: runNarrate,
}

var (
	outputDir  string
	background string
	apiKey     string
	voiceID    string
	modelID    string
	stability  float64
	similarity float64
	writeVTT   bool
	audioOnly  bool
	noAsync    bool

	maxConcurrent int
	maxRetries    int
	rateLimit     int
	chunkChars    int

	// Caption tuning flags.
	wordsPerSegment int
	wordsPerMinute  float64
	maxCPL          int
)

func init() {
	defaults := config.Default()

	narrateCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (default: alongside the input)")
	narrateCmd.Flags().StringVarP(&background, "background", "b", "", "background video looped under the narration")
	narrateCmd.Flags().StringVar(&apiKey, "api-key", "", "ElevenLabs API key (default: $ELEVENLABS_API_KEY)")
	narrateCmd.Flags().StringVar(&voiceID, "voice", "", "synthesis voice id")
	narrateCmd.Flags().StringVar(&modelID, "model", "", "synthesis model id")
	narrateCmd.Flags().Float64Var(&stability, "stability", 0, "voice stability 0-1 (0 = API default)")
	narrateCmd.Flags().Float64Var(&similarity, "similarity-boost", 0, "voice similarity boost 0-1 (0 = API default)")
	narrateCmd.Flags().BoolVar(&writeVTT, "vtt", false, "also write WebVTT captions")
	narrateCmd.Flags().BoolVar(&audioOnly, "audio-only", false, "skip video composition")
	narrateCmd.Flags().BoolVar(&noAsync, "no-async", false, "disable concurrent chunk synthesis")
	narrateCmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "j", defaults.MaxConcurrentChunks, "max concurrent synthesis calls")
	narrateCmd.Flags().IntVar(&maxRetries, "max-retries", defaults.MaxRetries, "max retries per chunk")
	narrateCmd.Flags().IntVar(&rateLimit, "rate-limit", defaults.APIRateLimitPerMin, "API requests per minute")
	narrateCmd.Flags().IntVar(&chunkChars, "chunk-chars", defaults.Narration.MaxChunkChars, "max characters per synthesis call")

	// Caption tuning flags.
	narrateCmd.Flags().IntVar(&wordsPerSegment, "words-per-segment", defaults.Narration.WordsPerSegment, "words per caption segment")
	narrateCmd.Flags().Float64Var(&wordsPerMinute, "wpm", defaults.Narration.WordsPerMinute, "reading speed for duration estimates")
	narrateCmd.Flags().IntVar(&maxCPL, "max-cpl", defaults.Narration.MaxCharsPerLine, "max caption characters per line")

	rootCmd.AddCommand(narrateCmd)
}

// validatePDFInput resolves the input to an absolute path and runs cheap
// PDF sanity checks.
func validatePDFInput(inputPath string) (string, error) {
	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file not found: %s", inputPath)
	}

	if ext := strings.ToLower(filepath.Ext(absPath)); ext != ".pdf" {
		return "", fmt.Errorf("unsupported file type: %s (expected .pdf)", ext)
	}

	if err := pdftext.ValidateFile(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// buildConfig folds the caption/synthesis flags into a Config.
func buildConfig() *config.Config {
	cfg := config.Default()
	cfg.Narration.WordsPerSegment = wordsPerSegment
	cfg.Narration.WordsPerMinute = wordsPerMinute
	cfg.Narration.MaxCharsPerLine = maxCPL
	cfg.Narration.MaxChunkChars = chunkChars
	cfg.Narration.VoiceID = voiceID
	cfg.Narration.ModelID = modelID
	cfg.Narration.Stability = stability
	cfg.Narration.SimilarityBoost = similarity
	cfg.MaxConcurrentChunks = maxConcurrent
	cfg.MaxRetries = maxRetries
	cfg.APIRateLimitPerMin = rateLimit
	return cfg
}

func resolveAPIKey() string {
	if apiKey != "" {
		return apiKey
	}
	return os.Getenv("ELEVENLABS_API_KEY")
}

func runNarrate(cmd *cobra.Command, args []string) error {
	absPath, err := validatePDFInput(args[0])
	if err != nil {
		return err
	}

	cfg := buildConfig()

	// Setup signal handling for graceful cancellation.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service := tts.NewService(tts.Options{
		APIKey:          resolveAPIKey(),
		VoiceID:         cfg.Narration.VoiceID,
		ModelID:         cfg.Narration.ModelID,
		Stability:       cfg.Narration.Stability,
		SimilarityBoost: cfg.Narration.SimilarityBoost,
	})

	opts := worker.Options{
		InputPath:      absPath,
		OutputDir:      outputDir,
		BackgroundPath: background,
		WriteVTT:       writeVTT,
		AudioOnly:      audioOnly,
		NoAsync:        noAsync,
		Settings:       cfg,
		Extractor:      pdftext.NewExtractor(),
		Synthesizer:    service,
	}

	if _, err := worker.Run(ctx, opts); err != nil {
		return err
	}

	if !quiet {
		slog.Info("done")
	}
	return nil
}
