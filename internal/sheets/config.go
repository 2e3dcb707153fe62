package sheets

import (
	"encoding/json"
	"fmt"
	"os"
)

// SheetConfig maps category names to budget-sheet cell addresses, plus the
// spreadsheet coordinates the uploader needs. Loaded from a JSON file kept
// next to the budget, not baked into the binary.
type SheetConfig struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	TemplateSheet string `json:"template_sheet"`
	TargetSheet   string `json:"target_sheet"`
	// Mappings is category name -> A1 cell address (e.g. "M4").
	Mappings map[string]string `json:"mappings"`
	// UnmappedCategories are intentionally left out of the budget; totals for
	// them are reported but never written.
	UnmappedCategories []string `json:"unmapped_categories"`
	// ShallowCopyCells are converted from formulas to their current values
	// after the template is duplicated, so later cell writes don't fight
	// formulas.
	ShallowCopyCells []string `json:"shallow_copy_cells"`
}

// LoadSheetConfig reads and validates a sheet configuration file.
func LoadSheetConfig(path string) (*SheetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sheet config: %w", err)
	}
	var cfg SheetConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse sheet config %q: %w", path, err)
	}
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheet config %q: spreadsheet_id is required", path)
	}
	if len(cfg.Mappings) == 0 {
		return nil, fmt.Errorf("sheet config %q: mappings is empty", path)
	}
	return &cfg, nil
}

// Cell returns the mapped cell for a category, or "" when unmapped.
func (c *SheetConfig) Cell(category string) string {
	return c.Mappings[category]
}

// IsIntentionallyUnmapped reports whether a category was deliberately left
// out of the budget sheet.
func (c *SheetConfig) IsIntentionallyUnmapped(category string) bool {
	for _, name := range c.UnmappedCategories {
		if name == category {
			return true
		}
	}
	return false
}
