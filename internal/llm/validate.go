package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/budget-automation/statement-categorizer/internal/common"
)

// ValidateResponse checks a model's cleaned JSON output against the schema
// that was sent with the request. The backend is supposed to enforce the
// schema itself, but the categorizer's closed-set guarantee rests on this
// check, not on the backend's word. Any mismatch, including output that is
// not JSON at all, is an ErrSchemaViolation.
func ValidateResponse(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("model output is not valid JSON: %v: %w", err, common.ErrSchemaViolation)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("model output does not match schema: %v: %w", err, common.ErrSchemaViolation)
	}
	return nil
}
