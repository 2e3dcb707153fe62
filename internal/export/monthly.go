package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/budget-automation/statement-categorizer/internal/entity"
)

// MonthlyTotal is one (year, month, category) total.
type MonthlyTotal struct {
	Year     int
	Month    int
	Category string
	Total    decimal.Decimal
}

// MonthlyTotals groups transactions by calendar month and category. When a
// set is supplied, every configured category appears zero-filled for each
// observed month, in configured order with observed extras sorted after;
// without one, rows within a month sort by total descending.
func MonthlyTotals(txs []entity.CategorizedTransaction, set *entity.CategorySet) []MonthlyTotal {
	type key struct {
		year, month int
		category    string
	}
	totals := make(map[key]decimal.Decimal)
	months := make(map[[2]int]struct{})
	for _, tx := range txs {
		k := key{tx.Date.Year(), int(tx.Date.Month()), tx.Category}
		totals[k] = totals[k].Add(tx.Amount)
		months[[2]int{k.year, k.month}] = struct{}{}
	}
	if set != nil {
		for ym := range months {
			for _, name := range set.Names() {
				k := key{ym[0], ym[1], name}
				if _, ok := totals[k]; !ok {
					totals[k] = decimal.Zero
				}
			}
		}
	}

	out := make([]MonthlyTotal, 0, len(totals))
	for k, total := range totals {
		out = append(out, MonthlyTotal{Year: k.year, Month: k.month, Category: k.category, Total: total})
	}

	var order map[string]int
	if set != nil {
		names := set.Names()
		order = make(map[string]int, len(names))
		for i, name := range names {
			order[name] = i
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if set != nil {
			ai, aok := order[a.Category]
			bi, bok := order[b.Category]
			if aok != bok {
				return aok
			}
			if aok {
				return ai < bi
			}
			return a.Category < b.Category
		}
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Category < b.Category
	})
	return out
}

// WriteMonthlySummaryCSV writes year,month,category,total rows in the order
// given. This is the shape the budget uploader's year/month filter reads.
func WriteMonthlySummaryCSV(w io.Writer, rows []MonthlyTotal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "month", "category", "total"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			r.Category,
			r.Total.StringFixed(2),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
