package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is a candidate transaction extracted from a statement,
// prior to categorization. Never mutated after creation.
type RawTransaction struct {
	Date        time.Time       // calendar date (time component is always zero, UTC)
	Description string          // merchant/memo text, whitespace-normalized
	Amount      decimal.Decimal // signed; positive for charges, negative for credits
}

// DedupKey identifies duplicate transactions: two RawTransactions are
// duplicates iff their keys are equal. The description is trimmed and
// case-folded and the amount rounded to 2 decimal places, so a transaction
// echoed across a page boundary collapses to one record.
func (t RawTransaction) DedupKey() string {
	return t.Date.Format("2006-01-02") + "\x1f" +
		strings.ToLower(strings.TrimSpace(t.Description)) + "\x1f" +
		t.Amount.Round(2).String()
}

// CategorizedTransaction is a RawTransaction augmented with a category.
// Category is always a member of the configured set, the reserved fallback
// "Other", or the parse-only sentinel. Immutable after creation.
type CategorizedTransaction struct {
	RawTransaction
	Category string
}

// NormalizeDescription collapses internal whitespace and trims the ends.
// Parser output and categorizer reconciliation both rely on this form.
func NormalizeDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
