package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/vihananand1/pdf-speak-out/internal/config"
	"github.com/vihananand1/pdf-speak-out/internal/pdftext"
	"github.com/vihananand1/pdf-speak-out/internal/worker"

	"github.com/spf13/cobra"
)

var captionsCmd = &cobra.Command{
	Use:   "captions <input-file>",
	Short: "Generate timed captions from a PDF without synthesizing audio",
	Long: `Captions extracts the text layer of a PDF and writes SRT (and optionally
WebVTT) captions. The timeline length comes from the reading-speed estimate
unless --duration is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runCaptions,
}

var (
	captionsOutputDir       string
	captionsDuration        float64
	captionsWriteVTT        bool
	captionsWordsPerSegment int
	captionsWordsPerMinute  float64
	captionsMaxCPL          int
)

func init() {
	defaults := config.Default()

	captionsCmd.Flags().StringVarP(&captionsOutputDir, "output-dir", "o", "", "output directory (default: alongside the input)")
	captionsCmd.Flags().Float64VarP(&captionsDuration, "duration", "d", 0, "total duration in seconds (default: estimated from word count)")
	captionsCmd.Flags().BoolVar(&captionsWriteVTT, "vtt", false, "also write WebVTT captions")
	captionsCmd.Flags().IntVar(&captionsWordsPerSegment, "words-per-segment", defaults.Narration.WordsPerSegment, "words per caption segment")
	captionsCmd.Flags().Float64Var(&captionsWordsPerMinute, "wpm", defaults.Narration.WordsPerMinute, "reading speed for the duration estimate")
	captionsCmd.Flags().IntVar(&captionsMaxCPL, "max-cpl", defaults.Narration.MaxCharsPerLine, "max caption characters per line")

	rootCmd.AddCommand(captionsCmd)
}

func runCaptions(cmd *cobra.Command, args []string) error {
	absPath, err := validatePDFInput(args[0])
	if err != nil {
		return err
	}

	cfg := config.Default()
	cfg.Narration.WordsPerSegment = captionsWordsPerSegment
	cfg.Narration.WordsPerMinute = captionsWordsPerMinute
	cfg.Narration.MaxCharsPerLine = captionsMaxCPL

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := worker.Options{
		InputPath: absPath,
		OutputDir: captionsOutputDir,
		Duration:  captionsDuration,
		WriteVTT:  captionsWriteVTT,
		Settings:  cfg,
		Extractor: pdftext.NewExtractor(),
	}

	if _, err := worker.Run(ctx, opts); err != nil {
		return err
	}

	if !quiet {
		slog.Info("done")
	}
	return nil
}
