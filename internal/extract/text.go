package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/budget-automation/statement-categorizer/internal/common"
)

// TextFileSource treats a plain-text export as a single-page document,
// splitting on form-feed when the export carries page breaks.
type TextFileSource struct{}

func NewTextFileSource() *TextFileSource { return &TextFileSource{} }

func (s *TextFileSource) Extract(ctx context.Context, path string) (Document, error) {
	start := time.Now()
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %q: %v: %w", path, err, common.ErrExtraction)
	}
	var pages []string
	for _, page := range strings.Split(string(b), "\f") {
		if strings.TrimSpace(page) == "" {
			continue
		}
		pages = append(pages, page)
	}
	if len(pages) == 0 {
		return Document{}, fmt.Errorf("empty document %q: %w", path, common.ErrExtraction)
	}
	return Document{
		Name:     filepath.Base(path),
		Pages:    pages,
		Method:   "plain-text",
		Duration: time.Since(start),
	}, nil
}
