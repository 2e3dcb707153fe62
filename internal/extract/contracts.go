package extract

import (
	"context"
	"time"
)

// Document is the result of text extraction: ordered raw text, one entry per
// page. Pages never contain empty blocks; blank pages are elided at the
// source.
type Document struct {
	Name     string
	Pages    []string
	Method   string // "pdf-text" | "plain-text"
	Duration time.Duration
	Warnings []string
}

// TextSource is Stage 1: document file -> per-page text. The core treats each
// page as opaque text. Implementations fail with an error wrapping
// common.ErrExtraction when the document is unreadable.
type TextSource interface {
	Extract(ctx context.Context, path string) (Document, error)
}
