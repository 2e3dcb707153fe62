package extract

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/budget-automation/statement-categorizer/constants"
	"github.com/budget-automation/statement-categorizer/internal/common"
)

// Registry maps document-format discriminators to text sources. New formats
// register an implementation instead of subclassing anything.
type Registry struct {
	sources map[string]TextSource
}

func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]TextSource)}
}

// Register binds a format (constants.PDF, constants.TXT, ...) to a source.
// Later registrations for the same format win.
func (r *Registry) Register(format string, src TextSource) {
	r.sources[format] = src
}

// Extract picks a source based on the file extension and runs it.
func (r *Registry) Extract(ctx context.Context, path string) (Document, error) {
	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		return Document{}, fmt.Errorf("unsupported extension %q: %w", filepath.Ext(path), common.ErrExtraction)
	}
	src, ok := r.sources[format]
	if !ok {
		return Document{}, fmt.Errorf("no text source registered for format %q: %w", format, common.ErrExtraction)
	}
	return src.Extract(ctx, path)
}
