// Package pdftext extracts the embedded text layer from PDF documents.
//
// It uses github.com/ledongthuc/pdf (pure Go, no CGO). Only the text layer
// is read; scanned image-only PDFs come back empty and are reported as an
// error rather than silently producing a silent video.
package pdftext

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls plain text out of PDF bytes. It is stateless and safe
// for concurrent use; the worker receives it as an injected capability.
type Extractor struct{}

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the text layer of the PDF in r, page by page in document
// order, and returns the concatenated text.
func (e *Extractor) Extract(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	return e.readPages(reader)
}

// ExtractFile extracts the text layer of the PDF at path.
func (e *Extractor) ExtractFile(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	return e.readPages(reader)
}

func (e *Extractor) readPages(reader *pdf.Reader) (string, error) {
	numPages := reader.NumPage()
	fonts := make(map[string]*pdf.Font)
	var parts []string

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("extract text from page %d: %w", i, err)
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}

	full := strings.Join(parts, "\n")
	if strings.TrimSpace(full) == "" {
		return "", fmt.Errorf("pdf has no extractable text layer (%d pages)", numPages)
	}
	return full, nil
}

// ValidateFile runs cheap sanity checks before the full parse: the file
// must exist and start with the %PDF signature.
func ValidateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var sig [4]byte
	if _, err := io.ReadFull(f, sig[:]); err != nil {
		return fmt.Errorf("read file header: %w", err)
	}
	if string(sig[:]) != "%PDF" {
		return fmt.Errorf("not a PDF file: missing %%PDF signature")
	}
	return nil
}
