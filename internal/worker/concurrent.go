package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vihananand1/pdf-speak-out/internal/config"
	"github.com/vihananand1/pdf-speak-out/internal/tts"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type chunkResult struct {
	Index int
	Audio []byte
}

// synthesizeConcurrent synthesizes chunks concurrently with bounded
// parallelism and rate limiting, preserving chunk order in the result.
func synthesizeConcurrent(ctx context.Context, chunks []string, opts Options, cfg *config.Config) ([][]byte, error) {
	slog.Info("starting concurrent synthesis",
		"chunks", len(chunks),
		"max_concurrent", cfg.MaxConcurrentChunks,
		"rate_limit_rpm", cfg.APIRateLimitPerMin)

	// Rate limiter: tokens per second = RPM / 60.
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.APIRateLimitPerMin)/60.0), 1)

	var (
		mu      sync.Mutex
		results []chunkResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrentChunks)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}

			slog.Info("synthesizing chunk", "chunk", fmt.Sprintf("%d/%d", i+1, len(chunks)))

			audio, err := synthesizeWithRetry(gctx, opts.Synthesizer, chunk, i+1, len(chunks), cfg.MaxRetries)
			if err != nil {
				return err
			}

			mu.Lock()
			results = append(results, chunkResult{Index: i, Audio: audio})
			mu.Unlock()

			slog.Info("chunk completed", "chunk", fmt.Sprintf("%d/%d", i+1, len(chunks)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Some chunks may have succeeded — finish the rest sequentially.
		mu.Lock()
		completedCount := len(results)
		mu.Unlock()

		if completedCount > 0 {
			slog.Warn("concurrent synthesis partially failed, falling back to sequential",
				"completed", completedCount, "total", len(chunks), "err", err)
			return fallbackToSequential(ctx, chunks, opts.Synthesizer, results)
		}
		return nil, err
	}

	return orderResults(results), nil
}

func orderResults(results []chunkResult) [][]byte {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
	parts := make([][]byte, len(results))
	for i, r := range results {
		parts[i] = r.Audio
	}
	return parts
}

// synthesizeWithRetry retries a single chunk with exponential backoff.
func synthesizeWithRetry(ctx context.Context, synth tts.Synthesizer, chunk string, num, total, maxRetries int) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		audio, err := synth.Synthesize(ctx, chunk)
		if err == nil {
			return audio, nil
		}

		lastErr = err
		if attempt < maxRetries-1 {
			backoff := 1 << uint(attempt) // 1s, 2s, 4s...
			slog.Warn("chunk failed, retrying",
				"chunk", fmt.Sprintf("%d/%d", num, total),
				"attempt", attempt+1,
				"backoff_sec", backoff,
				"err", err)

			timer := time.NewTimer(time.Duration(backoff) * time.Second)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, fmt.Errorf("chunk %d/%d failed after %d retries: %w", num, total, maxRetries, lastErr)
}

func fallbackToSequential(ctx context.Context, chunks []string, synth tts.Synthesizer, completed []chunkResult) ([][]byte, error) {
	slog.Info("falling back to sequential synthesis for remaining chunks")

	done := make(map[int]bool)
	for _, r := range completed {
		done[r.Index] = true
	}

	for i, chunk := range chunks {
		if done[i] {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		slog.Info("sequential fallback synthesizing chunk", "chunk", fmt.Sprintf("%d/%d", i+1, len(chunks)))

		audio, err := synth.Synthesize(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("sequential fallback chunk %d/%d: %w", i+1, len(chunks), err)
		}

		completed = append(completed, chunkResult{Index: i, Audio: audio})
	}

	return orderResults(completed), nil
}
