package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-automation/statement-categorizer/constants"
	"github.com/budget-automation/statement-categorizer/internal/entity"
)

func openTestStore(t *testing.T) RunRepository {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "runs.db"), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRunRepository(db, nil)
}

func storedTxs(t *testing.T) []entity.CategorizedTransaction {
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
		tx("2024-03-15", "SAFEWAY #42", "40.00", "Groceries"),
		tx("2024-03-16", "SHELL OIL", "30.50", "Fuel"),
		tx("2024-03-17", "PAYMENT THANK YOU", "-70.50", "Other"),
	}
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	runs := openTestStore(t)

	run, err := runs.CreateRun(ctx, "mistral", 2)
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if run.Status != constants.RunStatusRunning {
		t.Errorf("new run status = %q, want RUNNING", run.Status)
	}

	txs := storedTxs(t)
	if err := runs.SaveTransactions(ctx, run.ID, txs); err != nil {
		t.Fatalf("SaveTransactions() error = %v", err)
	}
	if err := runs.FinishRun(ctx, run.ID, constants.RunStatusSucceeded, 2, 0, 1); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	latest, err := runs.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun() error = %v", err)
	}
	if latest.ID != run.ID {
		t.Errorf("latest run = %s, want %s", latest.ID, run.ID)
	}
	if latest.Status != constants.RunStatusSucceeded || latest.Misses != 1 {
		t.Errorf("latest = %+v, want SUCCEEDED with 1 miss", latest)
	}
	if latest.FinishedAt == nil {
		t.Error("FinishedAt not set")
	}

	got, err := runs.ListTransactions(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(got) != len(txs) {
		t.Fatalf("got %d transactions, want %d", len(got), len(txs))
	}
	for i := range txs {
		if got[i].Description != txs[i].Description {
			t.Errorf("row %d description = %q, want %q (insert order preserved)", i, got[i].Description, txs[i].Description)
		}
		if !got[i].Amount.Equal(txs[i].Amount) {
			t.Errorf("row %d amount = %s, want %s", i, got[i].Amount, txs[i].Amount)
		}
		if got[i].Category != txs[i].Category {
			t.Errorf("row %d category = %q, want %q", i, got[i].Category, txs[i].Category)
		}
		if !got[i].Date.Equal(txs[i].Date) {
			t.Errorf("row %d date = %v, want %v", i, got[i].Date, txs[i].Date)
		}
	}
}

func TestLatestRunPicksNewest(t *testing.T) {
	ctx := context.Background()
	runs := openTestStore(t)

	first, err := runs.CreateRun(ctx, "mistral", 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := runs.CreateRun(ctx, "llama3", 1)
	if err != nil {
		t.Fatal(err)
	}

	latest, err := runs.LatestRun(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != second.ID {
		t.Errorf("latest = %s, want %s (not %s)", latest.ID, second.ID, first.ID)
	}
	if latest.Model != "llama3" {
		t.Errorf("model = %q, want llama3", latest.Model)
	}
}

func TestLatestRunEmptyStore(t *testing.T) {
	runs := openTestStore(t)
	if _, err := runs.LatestRun(context.Background()); !errors.Is(err, ErrNoRuns) {
		t.Errorf("error = %v, want ErrNoRuns", err)
	}
}

func TestListTransactionsUnknownRun(t *testing.T) {
	runs := openTestStore(t)
	run, err := runs.CreateRun(context.Background(), "mistral", 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := runs.ListTransactions(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d transactions, want 0", len(got))
	}
}
