package llm

import "context"

// GenerateRequest is one schema-constrained generation request. The schema
// is a JSON-Schema subset (as a generic map) that the backend enforces
// mechanically on its output; responses are additionally validated locally
// before use.
type GenerateRequest struct {
	System      string
	Prompt      string
	Schema      map[string]any
	Temperature float32
}

// StructuredClient is the interface the pipeline depends on. Implementations
// must be safe for concurrent calls: each request is an independent logical
// call even when multiplexed over one connection.
type StructuredClient interface {
	// GenerateStructured executes the request and returns the raw JSON
	// response body, already validated against req.Schema.
	GenerateStructured(ctx context.Context, req GenerateRequest) ([]byte, error)

	// CheckConnection reports whether the backend is reachable.
	CheckConnection(ctx context.Context) bool

	// Close releases any held connections. Safe to call more than once.
	Close()
}
