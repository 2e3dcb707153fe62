package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/budget-automation/statement-categorizer/internal/llm"
)

type captureSink struct {
	pages     []string
	artifacts []string
}

func (c *captureSink) PageText(document string, page int, _ string) {
	c.pages = append(c.pages, document)
}

func (c *captureSink) Artifact(name string, _ any) {
	c.artifacts = append(c.artifacts, name)
}

type countingClient struct {
	calls int
	err   error
}

func (c *countingClient) GenerateStructured(context.Context, llm.GenerateRequest) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []byte(`{}`), nil
}
func (c *countingClient) CheckConnection(context.Context) bool { return true }
func (c *countingClient) Close()                               {}

func TestRecordingClientCapturesRequestAndResponse(t *testing.T) {
	sink := &captureSink{}
	inner := &countingClient{}
	rc := &recordingClient{StructuredClient: inner, sink: sink}

	if _, err := rc.GenerateStructured(context.Background(), llm.GenerateRequest{Prompt: "p"}); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if len(sink.artifacts) != 2 {
		t.Fatalf("artifacts = %v, want request + response", sink.artifacts)
	}
	if !strings.HasPrefix(sink.artifacts[0], "llm_request_") {
		t.Errorf("first artifact = %q, want llm_request_*", sink.artifacts[0])
	}
	if !strings.HasPrefix(sink.artifacts[1], "llm_response_") {
		t.Errorf("second artifact = %q, want llm_response_*", sink.artifacts[1])
	}
}

func TestDirSinkWritesFiles(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewDirSink(filepath.Join(dir, "debug"), nil)
	if err != nil {
		t.Fatal(err)
	}

	sink.PageText("march statement.pdf", 1, "page text")
	sink.Artifact("parsed_march statement.pdf", map[string]any{"n": 1})

	entries, err := os.ReadDir(filepath.Join(dir, "debug"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d files, want 2", len(entries))
	}
	for _, e := range entries {
		if strings.ContainsAny(e.Name(), " /") {
			t.Errorf("file name %q not sanitized", e.Name())
		}
	}
}
