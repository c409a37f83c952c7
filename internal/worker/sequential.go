package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vihananand1/pdf-speak-out/internal/tts"
)

// synthesizeSequential synthesizes chunks one at a time, in order.
func synthesizeSequential(ctx context.Context, chunks []string, synth tts.Synthesizer) ([][]byte, error) {
	parts := make([][]byte, 0, len(chunks))

	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if len(chunks) > 1 {
			slog.Info("synthesizing chunk", "chunk", fmt.Sprintf("%d/%d", i+1, len(chunks)))
		}

		audio, err := synth.Synthesize(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d failed: %w", i+1, len(chunks), err)
		}

		parts = append(parts, audio)
	}

	return parts, nil
}
