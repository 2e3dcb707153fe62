package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/budget-automation/statement-categorizer/constants"
)

// Stats aggregates one directory scan.
type Stats struct {
	Scanned int
	Matched int
	Failed  int
}

// AllowedExt reports whether a file extension names a supported statement
// format (pdf/txt by default).
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// DiscoverStatements walks root, skips hidden entries, and collects files
// with a supported extension in lexical order so repeated runs process
// documents in the same sequence. Unreadable entries are counted, not fatal.
func DiscoverStatements(root string, logger *slog.Logger) ([]string, Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(root) == "" {
		return nil, Stats{}, errors.New("root path is required")
	}

	var paths []string
	var stats Stats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			stats.Failed++
			logger.Warn("ingest.walk.error", "path", path, "error", walkErr)
			return nil
		}
		if IsHidden(path) && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk %q: %w", root, err)
	}

	sort.Strings(paths)
	logger.Info("ingest.scan.done",
		"root", root, "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)
	return paths, stats, nil
}
