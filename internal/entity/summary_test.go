package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSummaryZeroFilled(t *testing.T) {
	s := NewSummary(testSet())
	for _, name := range []string{"Groceries", "Dining Out", "Fuel"} {
		total, ok := s[name]
		if !ok {
			t.Fatalf("summary missing configured category %q", name)
		}
		if !total.IsZero() {
			t.Errorf("summary[%q] = %s, want 0", name, total)
		}
	}
}

func TestSummaryAddAndTotal(t *testing.T) {
	s := NewSummary(testSet())
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	add := func(desc, amount, category string) {
		s.Add(CategorizedTransaction{
			RawTransaction: RawTransaction{Date: date, Description: desc, Amount: mustDecimal(t, amount)},
			Category:       category,
		})
	}
	add("SAFEWAY", "20.00", "Groceries")
	add("COSTCO", "35.25", "Groceries")
	add("PAYMENT THANK YOU", "-50.00", "Other")

	if got := s["Groceries"]; !got.Equal(mustDecimal(t, "55.25")) {
		t.Errorf("Groceries = %s, want 55.25", got)
	}
	// "Other" was not configured but still accumulates.
	if got := s["Other"]; !got.Equal(mustDecimal(t, "-50.00")) {
		t.Errorf("Other = %s, want -50.00", got)
	}
	if got := s.Total(); !got.Equal(mustDecimal(t, "5.25")) {
		t.Errorf("Total() = %s, want 5.25", got)
	}
}

func TestSummaryMergeMatchesSequentialAdds(t *testing.T) {
	set := testSet()
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	tx := func(amount, category string) CategorizedTransaction {
		return CategorizedTransaction{
			RawTransaction: RawTransaction{Date: date, Description: "X", Amount: mustDecimal(t, amount)},
			Category:       category,
		}
	}

	sequential := NewSummary(set)
	sequential.Add(tx("10.00", "Fuel"))
	sequential.Add(tx("5.50", "Fuel"))
	sequential.Add(tx("3.00", "Groceries"))

	merged := NewSummary(set)
	doc1 := NewSummary(set)
	doc1.Add(tx("10.00", "Fuel"))
	doc2 := NewSummary(set)
	doc2.Add(tx("5.50", "Fuel"))
	doc2.Add(tx("3.00", "Groceries"))
	merged.Merge(doc1)
	merged.Merge(doc2)

	for name := range sequential {
		if !merged[name].Equal(sequential[name]) {
			t.Errorf("merged[%q] = %s, sequential = %s", name, merged[name], sequential[name])
		}
	}
	if !merged.Total().Equal(sequential.Total()) {
		t.Errorf("totals differ: merged %s, sequential %s", merged.Total(), sequential.Total())
	}
}

func TestSummarySortedNames(t *testing.T) {
	set := testSet()
	s := NewSummary(set)
	s["Zebra"] = decimal.New(1, 0)
	s["Alpha"] = decimal.New(1, 0)

	got := s.SortedNames(set)
	want := []string{"Groceries", "Dining Out", "Fuel", "Alpha", "Zebra"}
	if len(got) != len(want) {
		t.Fatalf("SortedNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SortedNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
