package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestIsPDF(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"doc.pdf", true},
		{"DOC.PDF", true},
		{"/a/b/paper.Pdf", true},
		{"movie.mp4", false},
		{"notes.txt", false},
		{"pdf", false},
	}

	for _, tt := range tests {
		if got := isPDF(tt.path); got != tt.want {
			t.Errorf("isPDF(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_DispatchesNewPDF(t *testing.T) {
	dir := t.TempDir()

	var handled atomic.Int32
	gotPath := make(chan string, 1)

	w, err := New(dir, func(ctx context.Context, path string) error {
		handled.Add(1)
		gotPath <- path
		return nil
	}, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	// Let the watch loop start before creating the file.
	time.Sleep(100 * time.Millisecond)

	pdfPath := filepath.Join(dir, "incoming.pdf")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}
	// A non-PDF file must be ignored.
	if err := os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-gotPath:
		if path != pdfPath {
			t.Errorf("handler path = %q, want %q", path, pdfPath)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called for new PDF")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("Start returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}

	if got := handled.Load(); got != 1 {
		t.Errorf("handler called %d times, want 1", got)
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), func(ctx context.Context, path string) error {
		return nil
	}, 1)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
