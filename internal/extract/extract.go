// Package extract converts uploaded attachment files into plain text for the
// drafting prompt. Extraction is best effort: a file we cannot read yields a
// placeholder string, never an error, so a bad attachment cannot fail a
// draft request.
package extract

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
)

// maxTextChars caps how much extracted text an attachment contributes.
const maxTextChars = 50000

// Extractor turns attachment bytes into prompt text. The PDF engine boots
// lazily on the first PDF, so deployments that never see one pay nothing.
type Extractor struct {
	logger *slog.Logger

	pdfOnce sync.Once
	pdf     *pdfExtractor
}

// New creates an extractor.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Close releases the PDF engine if it was ever started.
func (e *Extractor) Close() error {
	if e.pdf == nil {
		return nil
	}
	return e.pdf.close()
}

// pdfEngine returns the lazily started PDF engine, or nil when it failed to
// start. Extraction then degrades to a placeholder.
func (e *Extractor) pdfEngine() *pdfExtractor {
	e.pdfOnce.Do(func() {
		pdf, err := newPDFExtractor()
		if err != nil {
			e.logger.Warn("extract: pdf engine unavailable", slog.String("error", err.Error()))
			return
		}
		e.pdf = pdf
	})
	return e.pdf
}

// Extract returns the text content of an attachment. The filename extension
// decides the strategy.
func (e *Extractor) Extract(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".csv", ".html", ".htm", ".json", ".xml":
		return clip(string(data))
	case ".pdf":
		return e.extractPDF(name, data)
	default:
		return fmt.Sprintf("[Unsupported attachment type: %s]", name)
	}
}

func (e *Extractor) extractPDF(name string, data []byte) string {
	engine := e.pdfEngine()
	if engine == nil {
		return fmt.Sprintf("[Could not extract text from %s: PDF engine unavailable]", name)
	}
	text, err := engine.text(data)
	if err != nil {
		e.logger.Warn("extract: pdf extraction failed",
			slog.String("name", name),
			slog.String("error", err.Error()))
		return fmt.Sprintf("[Could not extract text from %s]", name)
	}
	return clip(text)
}

func clip(s string) string {
	if len(s) > maxTextChars {
		return s[:maxTextChars]
	}
	return s
}
