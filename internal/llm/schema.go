package llm

// BuildExtractionSchema returns a JSON-Schema (draft 2020-12 subset) for the
// per-page transaction extraction response, as a generic map. We pass this to
// the backend as a structured output constraint and also use it locally to
// validate.
func BuildExtractionSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"transactions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"date":        map[string]any{"type": "string", "minLength": 1},
						"description": map[string]any{"type": "string", "minLength": 1},
						"amount":      map[string]any{"type": "number"},
					},
					"required": []string{"date", "description", "amount"},
				},
			},
		},
		"required": []string{"transactions"},
	}
}

// BuildBatchCategorizationSchema constrains a batch categorization response
// to an array of {description, category} pairs with category as an enum over
// the configured names.
func BuildBatchCategorizationSchema(categoryNames []string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"assignments": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"description": map[string]any{"type": "string"},
						"category":    categoryEnum(categoryNames),
					},
					"required": []string{"description", "category"},
				},
			},
		},
		"required": []string{"assignments"},
	}
}

// BuildSingleCategorizationSchema is the single-item variant used by the
// per-transaction fallback path.
func BuildSingleCategorizationSchema(categoryNames []string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"category": categoryEnum(categoryNames),
		},
		"required": []string{"category"},
	}
}

func categoryEnum(names []string) map[string]any {
	enum := make([]any, len(names))
	for i, n := range names {
		enum[i] = n
	}
	return map[string]any{"type": "string", "enum": enum}
}
