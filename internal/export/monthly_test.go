package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-automation/statement-categorizer/internal/entity"
)

func monthlyTxs(t *testing.T) []entity.CategorizedTransaction {
	t.Helper()
	tx := func(date, desc, amount, cat string) entity.CategorizedTransaction {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			t.Fatal(err)
		}
		return entity.CategorizedTransaction{
			RawTransaction: entity.RawTransaction{
				Date:        d.UTC(),
				Description: desc,
				Amount:      decimal.RequireFromString(amount),
			},
			Category: cat,
		}
	}
	return []entity.CategorizedTransaction{
		tx("2024-02-28", "SAFEWAY #42", "10.00", "Groceries"),
		tx("2024-03-15", "SAFEWAY #42", "40.00", "Groceries"),
		tx("2024-03-16", "SHELL OIL", "30.50", "Fuel"),
		tx("2024-03-20", "SAFEWAY #17", "12.00", "Groceries"),
		tx("2024-03-17", "PAYMENT THANK YOU", "-70.50", "Other"),
	}
}

func TestMonthlyTotalsGroupsAndZeroFills(t *testing.T) {
	rows := MonthlyTotals(monthlyTxs(t), exportSet())

	// 3 configured categories per observed month, plus the Other extra in March.
	if len(rows) != 7 {
		t.Fatalf("got %d rows, want 7: %+v", len(rows), rows)
	}

	find := func(year, month int, category string) MonthlyTotal {
		t.Helper()
		for _, r := range rows {
			if r.Year == year && r.Month == month && r.Category == category {
				return r
			}
		}
		t.Fatalf("no row for %d-%02d %s", year, month, category)
		return MonthlyTotal{}
	}
	if got := find(2024, 3, "Groceries").Total; !got.Equal(decimal.RequireFromString("52")) {
		t.Errorf("March Groceries = %s, want 52 (rows aggregate)", got)
	}
	if got := find(2024, 2, "Fuel").Total; !got.IsZero() {
		t.Errorf("February Fuel = %s, want zero-filled", got)
	}
	if got := find(2024, 3, "Other").Total; !got.Equal(decimal.RequireFromString("-70.5")) {
		t.Errorf("March Other = %s, want -70.5", got)
	}

	// February precedes March, configured order within a month, extras last.
	if rows[0].Month != 2 || rows[0].Category != "Groceries" {
		t.Errorf("rows[0] = %+v, want February Groceries first", rows[0])
	}
	if last := rows[len(rows)-1]; last.Month != 3 || last.Category != "Other" {
		t.Errorf("last row = %+v, want the March Other extra", last)
	}
}

func TestMonthlyTotalsWithoutSetSortsByTotal(t *testing.T) {
	rows := MonthlyTotals(monthlyTxs(t), nil)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4 (no zero-filling)", len(rows))
	}
	march := rows[1:]
	want := []string{"Groceries", "Fuel", "Other"}
	for i, cat := range want {
		if march[i].Category != cat {
			t.Errorf("march[%d] = %q, want %q (total descending)", i, march[i].Category, cat)
		}
	}
}

func TestWriteMonthlySummaryCSV(t *testing.T) {
	rows := MonthlyTotals(monthlyTxs(t), exportSet())
	var buf bytes.Buffer
	if err := WriteMonthlySummaryCSV(&buf, rows); err != nil {
		t.Fatalf("WriteMonthlySummaryCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"year,month,category,total",
		"2024,2,Groceries,10.00",
		"2024,2,Fuel,0.00",
		"2024,2,Subscriptions,0.00",
		"2024,3,Groceries,52.00",
		"2024,3,Fuel,30.50",
		"2024,3,Subscriptions,0.00",
		"2024,3,Other,-70.50",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
