package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/budget-automation/statement-categorizer/internal/entity"
	"github.com/budget-automation/statement-categorizer/internal/export"
)

// summarize rolls an existing ledger CSV up into year/month/category totals,
// the shape upload-budget's -year/-month filters consume. No inference
// involved; re-summarizing is free.
func main() {
	var (
		output         = flag.String("o", "summary.csv", "output summary CSV path")
		categoriesPath = flag.String("categories", "", "categories file (JSON or YAML); zero-fills configured categories per month")
		verbose        = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] transactions.csv\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	input := flag.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var set *entity.CategorySet
	if *categoriesPath != "" {
		loaded, err := entity.LoadCategorySet(*categoriesPath)
		if err != nil {
			logger.Error("failed to load categories", "path", *categoriesPath, "error", err)
			os.Exit(1)
		}
		set = loaded
	}

	f, err := os.Open(input)
	if err != nil {
		logger.Error("failed to open ledger", "path", input, "error", err)
		os.Exit(1)
	}
	txs, err := export.ReadLedgerCSV(f)
	_ = f.Close()
	if err != nil {
		logger.Error("failed to read ledger", "path", input, "error", err)
		os.Exit(1)
	}

	rows := export.MonthlyTotals(txs, set)

	out, err := os.Create(*output)
	if err != nil {
		logger.Error("failed to create output", "path", *output, "error", err)
		os.Exit(1)
	}
	if err := export.WriteMonthlySummaryCSV(out, rows); err != nil {
		_ = out.Close()
		logger.Error("failed to write summary", "path", *output, "error", err)
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		logger.Error("failed to close output", "path", *output, "error", err)
		os.Exit(1)
	}

	logger.Info("summarize.done", "transactions", len(txs), "rows", len(rows), "output", *output)
	fmt.Printf("Summary written to: %s (%d rows)\n", *output, len(rows))
}
