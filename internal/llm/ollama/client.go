package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/budget-automation/statement-categorizer/internal/common"
	"github.com/budget-automation/statement-categorizer/internal/llm"
)

// generatePayload is the /api/generate request body. The "format" field
// carries the JSON schema the server enforces on its output.
type generatePayload struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Format  map[string]any  `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
	NumCtx      int     `json:"num_ctx"`
}

type generateResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	TotalDuration   int64  `json:"total_duration"` // nanoseconds
}

// GenerateStructured implements llm.StructuredClient. The returned bytes are
// the model's JSON output, cleaned of fence noise and validated against
// req.Schema before being handed back.
func (c *Client) GenerateStructured(ctx context.Context, req llm.GenerateRequest) ([]byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	temp := req.Temperature
	if temp <= 0 {
		temp = c.cfg.Temperature
	}
	payload := generatePayload{
		Model:  c.cfg.Model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
		Format: req.Schema,
		Options: generateOptions{
			Temperature: temp,
			NumPredict:  c.cfg.NumPredict,
			NumCtx:      c.cfg.NumCtx,
		},
	}

	c.logger.Info("llm.generate.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"prompt_len", len(req.Prompt),
		"system_len", len(req.System),
		"schema", req.Schema != nil,
	)

	raw, err := c.post(ctx, c.baseURL+"/api/generate", payload)
	if err != nil {
		c.logger.Error("llm.generate.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, common.WrapError(common.ErrBackendUnavailable, err.Error())
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		c.logger.Error("llm.generate.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("decode ollama response: %w", common.ErrSchemaViolation)
	}
	if gr.Response == "" {
		c.logger.Error("llm.generate.empty_response",
			"req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("empty response from model: %w", common.ErrSchemaViolation)
	}

	content := []byte(llm.CleanModelJSON(gr.Response))
	if req.Schema != nil {
		if err := llm.ValidateResponse(req.Schema, content); err != nil {
			c.logger.Error("llm.generate.schema_validation_failed",
				"req_id", rid, "error", err,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return content, err
		}
	}

	c.logger.Info("llm.generate.ok",
		"req_id", rid,
		"prompt_tokens", gr.PromptEvalCount,
		"eval_tokens", gr.EvalCount,
		"model_ms", gr.TotalDuration/1e6,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// CheckConnection probes the server's tag listing, which is cheap and does
// not load a model.
func (c *Client) CheckConnection(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("llm.tags.body_close_error", "error", err)
		}
	}()
	return resp.StatusCode == http.StatusOK
}

// Close releases idle connections held by the underlying transport.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) post(ctx context.Context, url string, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn("ollama response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
