package entity

import (
	"strings"
	"testing"
)

func testSet() *CategorySet {
	return &CategorySet{Categories: []Category{
		{Name: "Groceries", Description: "Food stores", Keywords: []string{"SAFEWAY", "COSTCO", "KROGER", "ALDI"}},
		{Name: "Dining Out", Description: "Restaurants"},
		{Name: "Fuel", Description: "Gas stations", Keywords: []string{"SHELL"}},
	}}
}

func TestCategorySetValidate(t *testing.T) {
	tests := []struct {
		name    string
		set     *CategorySet
		wantErr bool
	}{
		{"valid set", testSet(), false},
		{"nil set", nil, true},
		{"empty set", &CategorySet{}, true},
		{"blank name", &CategorySet{Categories: []Category{{Name: "  "}}}, true},
		{"duplicate name", &CategorySet{Categories: []Category{
			{Name: "Fuel"}, {Name: "Fuel"},
		}}, true},
		{"case differs is not a duplicate", &CategorySet{Categories: []Category{
			{Name: "Fuel"}, {Name: "fuel"},
		}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategorySetContains(t *testing.T) {
	set := testSet()
	tests := []struct {
		name string
		want bool
	}{
		{"Groceries", true},
		{"Other", true}, // reserved fallback
		{"groceries", false},
		{"Rent", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := set.Contains(tt.name); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCategorySetNamesPreservesOrder(t *testing.T) {
	got := testSet().Names()
	want := []string{"Groceries", "Dining Out", "Fuel"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCategorySetPromptText(t *testing.T) {
	text := testSet().PromptText()

	if !strings.Contains(text, "- Groceries: Food stores (examples: SAFEWAY, COSTCO, KROGER)") {
		t.Errorf("prompt text should cap keywords at three, got:\n%s", text)
	}
	if strings.Contains(text, "ALDI") {
		t.Errorf("fourth keyword should be dropped, got:\n%s", text)
	}
	if !strings.Contains(text, "- Dining Out: Restaurants") {
		t.Errorf("keywordless category should still render, got:\n%s", text)
	}
	if strings.HasSuffix(text, "\n") {
		t.Error("prompt text should not end with a newline")
	}
}
