package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-automation/statement-categorizer/internal/entity"
)

// WriteLedgerCSV writes one row per transaction, in the order given. Amounts
// are rendered with two decimal places so spreadsheet imports line up.
func WriteLedgerCSV(w io.Writer, txs []entity.CategorizedTransaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "description", "amount", "category"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		rec := []string{
			tx.Date.Format("2006-01-02"),
			tx.Description,
			tx.Amount.StringFixed(2),
			tx.Category,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadLedgerCSV reads a ledger previously written by WriteLedgerCSV. The
// category column is optional so plain parse exports load too.
func ReadLedgerCSV(r io.Reader) ([]entity.CategorizedTransaction, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"date", "description", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("ledger CSV is missing the %q column", required)
		}
	}
	catCol, hasCategory := cols["category"]

	var out []entity.CategorizedTransaction
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		line++

		date, err := time.Parse("2006-01-02", rec[cols["date"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date %q: %w", line, rec[cols["date"]], err)
		}
		amount, err := decimal.NewFromString(rec[cols["amount"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad amount %q: %w", line, rec[cols["amount"]], err)
		}
		tx := entity.CategorizedTransaction{
			RawTransaction: entity.RawTransaction{
				Date:        date.UTC(),
				Description: rec[cols["description"]],
				Amount:      amount,
			},
		}
		if hasCategory {
			tx.Category = rec[catCol]
		}
		out = append(out, tx)
	}
	return out, nil
}

// WriteSummaryCSV writes per-category totals plus a trailing Total row.
// Configured categories appear in configured order even when zero; categories
// observed on output but absent from the configuration follow, sorted.
func WriteSummaryCSV(w io.Writer, summary entity.Summary, set *entity.CategorySet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"category", "total"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, name := range summary.SortedNames(set) {
		if err := cw.Write([]string{name, summary[name].StringFixed(2)}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	if err := cw.Write([]string{"Total", summary.Total().StringFixed(2)}); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
