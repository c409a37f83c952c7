// Package watcher monitors a directory and converts every PDF dropped into
// it.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler converts one PDF file.
type Handler func(ctx context.Context, path string) error

// settleDelay gives the writer time to finish before the file is read.
const settleDelay = 500 * time.Millisecond

// Watcher dispatches newly created PDF files to a handler with bounded
// concurrency.
type Watcher struct {
	inputDir  string
	handler   Handler
	fsw       *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// New creates a Watcher over inputDir. maxConcurrent bounds the number of
// conversions running at once.
func New(inputDir string, handler Handler, maxConcurrent int) (*Watcher, error) {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch directory %s: %w", inputDir, err)
	}

	return &Watcher{
		inputDir:  inputDir,
		handler:   handler,
		fsw:       fsw,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}

// Start blocks, dispatching conversions until the context is cancelled.
// In-flight conversions are drained before it returns.
func (w *Watcher) Start(ctx context.Context) error {
	slog.Info("watching for PDFs", "dir", w.inputDir, "max_concurrent", cap(w.semaphore))

	for {
		select {
		case <-ctx.Done():
			slog.Info("waiting for in-flight conversions")
			w.wg.Wait()
			slog.Info("watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) || !isPDF(event.Name) {
				continue
			}

			slog.Info("new PDF detected", "file", filepath.Base(event.Name))

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go w.convert(ctx, event.Name)
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			slog.Error("watcher error", "err", err)
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}

func (w *Watcher) convert(ctx context.Context, path string) {
	defer w.wg.Done()
	defer func() { <-w.semaphore }()

	// The create event fires before the writer is done.
	timer := time.NewTimer(settleDelay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return
	case <-timer.C:
	}

	if err := w.handler(ctx, path); err != nil {
		slog.Error("conversion failed", "file", filepath.Base(path), "err", err)
		return
	}
	slog.Info("conversion complete", "file", filepath.Base(path))
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
