package entity

import (
	"fmt"
	"strings"

	"github.com/budget-automation/statement-categorizer/constants"
)

// Category is one descriptor in the configured category set.
type Category struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// CategorySet is the ordered, read-only category configuration for a run.
// The categorizer's output schema is derived from it, so it must not change
// for the lifetime of the run.
type CategorySet struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// Validate fails fast on a configuration that would waste inference calls:
// an empty set, a blank name, or a duplicate name (case-sensitive).
func (s *CategorySet) Validate() error {
	if s == nil || len(s.Categories) == 0 {
		return fmt.Errorf("category set is empty")
	}
	seen := make(map[string]struct{}, len(s.Categories))
	for i, c := range s.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category %d has an empty name", i)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate category name: %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// Names returns the category names in configured order.
func (s *CategorySet) Names() []string {
	names := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		names[i] = c.Name
	}
	return names
}

// Contains reports whether name is a configured category or the reserved
// "Other" fallback.
func (s *CategorySet) Contains(name string) bool {
	if name == constants.OtherCategory {
		return true
	}
	for _, c := range s.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// PromptText renders the set for an LLM prompt, one category per line with
// its description and up to three example keywords.
func (s *CategorySet) PromptText() string {
	var b strings.Builder
	for _, c := range s.Categories {
		b.WriteString("- ")
		b.WriteString(c.Name)
		b.WriteString(": ")
		b.WriteString(c.Description)
		if len(c.Keywords) > 0 {
			kw := c.Keywords
			if len(kw) > 3 {
				kw = kw[:3]
			}
			b.WriteString(" (examples: ")
			b.WriteString(strings.Join(kw, ", "))
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
