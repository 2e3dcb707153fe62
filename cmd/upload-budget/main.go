package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/budget-automation/statement-categorizer/internal/sheets"
)

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "credentials.json"
	}
	return filepath.Join(home, ".config", "budget-automation", "credentials.json")
}

func main() {
	var (
		configPath  = flag.String("config", "google_sheet_config.json", "sheet config JSON (spreadsheet ID and cell mappings)")
		credentials = flag.String("credentials", defaultCredentialsPath(), "service-account key file")
		targetSheet = flag.String("target-sheet", "", "name of the budget sheet to create/update (default: from config)")
		year        = flag.Int("year", 0, "keep only summary rows for this year (requires year/month columns)")
		month       = flag.Int("month", 0, "keep only summary rows for this month, 1-12")
		dryRun      = flag.Bool("dry-run", false, "report the updates without writing to the spreadsheet")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] summary.csv\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	summaryPath := flag.Arg(0)

	_ = godotenv.Load()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := sheets.LoadSheetConfig(*configPath)
	if err != nil {
		logger.Error("failed to load sheet config", "error", err)
		os.Exit(1)
	}

	client, err := sheets.NewClient(ctx, *credentials, logger)
	if err != nil {
		logger.Error("failed to create sheets client", "error", err)
		os.Exit(1)
	}

	if *month < 0 || *month > 12 {
		logger.Error("invalid month", "month", *month)
		os.Exit(1)
	}

	uploader := sheets.NewBudgetUploader(client, cfg, logger)
	result, err := uploader.Upload(ctx, summaryPath, *targetSheet, *year, *month, *dryRun)
	if err != nil {
		logger.Error("upload failed", "error", err)
		os.Exit(1)
	}

	prefix := "Updated"
	if *dryRun {
		prefix = "[dry-run] Would update"
	}
	fmt.Printf("%s %d cells\n", prefix, len(result.Updates))
	for _, u := range result.Updates {
		fmt.Printf("  %-22s %s: %.2f -> %.2f (+%.2f)\n",
			u.Category, u.Cell, u.OldValue, u.NewValue, u.AmountAdded)
	}
	if len(result.UnmappedCategories) > 0 {
		fmt.Printf("Unmapped categories: %v\n", result.UnmappedCategories)
	}
}
