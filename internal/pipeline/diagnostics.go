package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/budget-automation/statement-categorizer/internal/llm"
)

// Sink receives intermediate artifacts at well-defined points: raw page text
// after extraction, parsed transactions after the parse stage, and every
// inference request/response payload. The core never writes files itself;
// persistence is the sink implementation's business.
type Sink interface {
	PageText(document string, page int, text string)
	Artifact(name string, payload any)
}

// NopSink discards everything. It is the default when no sink is supplied.
type NopSink struct{}

func (NopSink) PageText(string, int, string) {}
func (NopSink) Artifact(string, any)         {}

// recordingClient wraps a StructuredClient so every request/response pair
// flows to the sink without the parser or categorizer knowing about
// diagnostics. The counter is atomic because independent requests may be
// issued concurrently.
type recordingClient struct {
	llm.StructuredClient
	sink Sink
	seq  atomic.Int64
}

func (r *recordingClient) GenerateStructured(ctx context.Context, req llm.GenerateRequest) ([]byte, error) {
	n := r.seq.Add(1)
	r.sink.Artifact(fmt.Sprintf("llm_request_%03d", n), map[string]any{
		"system": req.System,
		"prompt": req.Prompt,
		"schema": req.Schema,
	})
	raw, err := r.StructuredClient.GenerateStructured(ctx, req)
	if err != nil {
		r.sink.Artifact(fmt.Sprintf("llm_response_%03d_error", n), err.Error())
		return raw, err
	}
	r.sink.Artifact(fmt.Sprintf("llm_response_%03d", n), string(raw))
	return raw, nil
}
