package llm

import "testing"

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object passes through", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose before and after", "Here you go:\n{\"a\":1}\nHope that helps!", `{"a":1}`},
		{"array value", "```json\n[1,2,3]\n```", `[1,2,3]`},
		{"nested braces survive", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"no json at all", "sorry, I cannot", "sorry, I cannot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanModelJSON(tt.in); got != tt.want {
				t.Errorf("CleanModelJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
