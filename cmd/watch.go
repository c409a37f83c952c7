package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vihananand1/pdf-speak-out/internal/config"
	"github.com/vihananand1/pdf-speak-out/internal/pdftext"
	"github.com/vihananand1/pdf-speak-out/internal/tts"
	"github.com/vihananand1/pdf-speak-out/internal/watcher"
	"github.com/vihananand1/pdf-speak-out/internal/worker"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and convert every PDF dropped into it",
	Long: `Watch monitors the configured input directory; each new PDF is run
through the full narrate pipeline with the settings from the YAML config
file.`,
	RunE: runWatch,
}

var watchConfigPath string

func init() {
	watchCmd.Flags().StringVarP(&watchConfigPath, "config", "c", "config.yaml", "watch-mode configuration file")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(watchConfigPath)
	if err != nil {
		return err
	}

	if !verbose && !quiet {
		applyLogLevel(cfg.Logging.Level)
	}

	for _, dir := range []string{cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Temp} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service := tts.NewService(tts.Options{
		APIKey:          resolveAPIKey(),
		VoiceID:         cfg.Pipeline.Narration.VoiceID,
		ModelID:         cfg.Pipeline.Narration.ModelID,
		Stability:       cfg.Pipeline.Narration.Stability,
		SimilarityBoost: cfg.Pipeline.Narration.SimilarityBoost,
	})
	extractor := pdftext.NewExtractor()

	handler := func(ctx context.Context, path string) error {
		_, err := worker.Run(ctx, worker.Options{
			InputPath:      path,
			OutputDir:      cfg.Paths.Output,
			BackgroundPath: cfg.Background,
			WriteVTT:       true,
			TempDir:        cfg.Paths.Temp,
			Settings:       &cfg.Pipeline,
			Extractor:      extractor,
			Synthesizer:    service,
		})
		return err
	}

	w, err := watcher.New(cfg.Paths.Input, handler, cfg.MaxConcurrent)
	if err != nil {
		return err
	}
	defer w.Stop()

	slog.Info("watch mode started", "input", cfg.Paths.Input, "output", cfg.Paths.Output)

	if err := w.Start(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
