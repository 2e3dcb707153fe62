package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DirSink writes diagnostics into a directory: page text as .txt, everything
// else as pretty-printed JSON. Write failures are logged and swallowed so
// diagnostics can never fail a run.
type DirSink struct {
	dir    string
	logger *slog.Logger
}

func NewDirSink(dir string, logger *slog.Logger) (*DirSink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create debug dir %q: %w", dir, err)
	}
	return &DirSink{dir: dir, logger: logger}, nil
}

func (s *DirSink) PageText(document string, page int, text string) {
	name := fmt.Sprintf("%s_page_%02d.txt", sanitizeName(document), page)
	s.write(name, []byte(text))
}

func (s *DirSink) Artifact(name string, payload any) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		s.logger.Warn("sink.marshal_failed", "artifact", name, "error", err)
		return
	}
	s.write(sanitizeName(name)+".json", data)
}

func (s *DirSink) write(name string, data []byte) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Warn("sink.write_failed", "path", path, "error", err)
	}
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
