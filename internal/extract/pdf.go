package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/budget-automation/statement-categorizer/internal/common"
)

// PDFConfig configures the pdftotext-backed source.
type PDFConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	MaxPages  int    // 0 = no limit
}

// PDFSource extracts per-page text from PDF statements by shelling out to
// pdftotext. Pages are split on the form-feed separator pdftotext emits.
type PDFSource struct {
	cfg    PDFConfig
	runner Runner
	logger *slog.Logger
}

func NewPDFSource(cfg PDFConfig, logger *slog.Logger) *PDFSource {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFSource{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (s *PDFSource) Extract(ctx context.Context, path string) (Document, error) {
	start := time.Now()

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := s.runner.Run(ctx, s.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return Document{}, fmt.Errorf("pdftotext %q: %v: %w", path, err, common.ErrExtraction)
	}

	// A form-feed \f is used as page separator by default.
	var pages []string
	var warnings []string
	if msg := strings.TrimSpace(string(errb)); msg != "" {
		warnings = append(warnings, msg)
	}
	for _, page := range strings.Split(string(out), "\f") {
		if strings.TrimSpace(page) == "" {
			continue
		}
		pages = append(pages, page)
		if s.cfg.MaxPages > 0 && len(pages) >= s.cfg.MaxPages {
			break
		}
	}
	if len(pages) == 0 {
		return Document{}, fmt.Errorf("no readable text in %q: %w", path, common.ErrExtraction)
	}

	doc := Document{
		Name:     filepath.Base(path),
		Pages:    pages,
		Method:   "pdf-text",
		Duration: time.Since(start),
		Warnings: warnings,
	}
	s.logger.Debug("extract.pdf.ok", "path", path, "pages", len(pages), "elapsed_ms", doc.Duration.Milliseconds())
	return doc, nil
}
