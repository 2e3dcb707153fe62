package entity

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summary maps category name to the running total of transaction amounts.
// Configured categories are zero-filled; categories observed on output but
// absent from the configuration are still included.
type Summary map[string]decimal.Decimal

// NewSummary returns a Summary zero-filled over the configured set.
func NewSummary(set *CategorySet) Summary {
	s := make(Summary, len(set.Categories)+1)
	for _, name := range set.Names() {
		s[name] = decimal.Zero
	}
	return s
}

// Add accumulates one transaction into the summary.
func (s Summary) Add(tx CategorizedTransaction) {
	s[tx.Category] = s[tx.Category].Add(tx.Amount)
}

// Merge folds another summary into this one. Used when per-document
// sub-summaries are combined, so no shared accumulator is ever written
// from concurrent goroutines.
func (s Summary) Merge(other Summary) {
	for name, total := range other {
		s[name] = s[name].Add(total)
	}
}

// Total returns the sum over all categories, rounded to 2 decimal places.
func (s Summary) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s {
		total = total.Add(v)
	}
	return total.Round(2)
}

// SortedNames returns the category names in deterministic order: configured
// order first when a set is supplied, then any observed extras sorted.
func (s Summary) SortedNames(set *CategorySet) []string {
	var names []string
	seen := make(map[string]struct{}, len(s))
	if set != nil {
		for _, name := range set.Names() {
			if _, ok := s[name]; ok {
				names = append(names, name)
				seen[name] = struct{}{}
			}
		}
	}
	var extras []string
	for name := range s {
		if _, ok := seen[name]; !ok {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(names, extras...)
}
