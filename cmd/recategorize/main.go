package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/budget-automation/statement-categorizer/internal/categorizer"
	"github.com/budget-automation/statement-categorizer/internal/common"
	"github.com/budget-automation/statement-categorizer/internal/entity"
	"github.com/budget-automation/statement-categorizer/internal/export"
	"github.com/budget-automation/statement-categorizer/internal/llm/ollama"
	"github.com/budget-automation/statement-categorizer/internal/repository"
)

// recategorize re-runs categorization over already-parsed transactions, from
// a prior ledger CSV or the run store. Parsing statements is the expensive
// half; tweaking category keywords shouldn't repeat it.
func main() {
	var (
		fromStore      = flag.Bool("from-store", false, "load transactions from the latest run in the run store")
		output         = flag.String("o", "", "output CSV path (default: <input>_recategorized.csv)")
		categoriesPath = flag.String("categories", "", "categories file (JSON or YAML); built-in defaults when empty")
		model          = flag.String("model", "", "Ollama model (overrides OLLAMA_MODEL)")
		host           = flag.String("ollama-host", "", "Ollama host (overrides OLLAMA_HOST)")
		dryRun         = flag.Bool("dry-run", false, "show category changes without writing output")
		showChanges    = flag.Bool("show-changes", false, "print only transactions that changed category")
		verbose        = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if flag.NArg() == 0 && !*fromStore {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] transactions.csv\n       %s -from-store [flags]\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	_ = godotenv.Load()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *model != "" {
		cfg.Ollama.Model = *model
	}
	if *host != "" {
		cfg.Ollama.Host = *host
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	previous, outPath, err := loadTransactions(ctx, cfg, *fromStore, flag.Args(), *output, logger)
	if err != nil {
		logger.Error("failed to load transactions", "error", err)
		os.Exit(1)
	}
	if len(previous) == 0 {
		fmt.Println("No transactions to recategorize")
		return
	}

	set := entity.DefaultCategorySet()
	if *categoriesPath != "" {
		loaded, err := entity.LoadCategorySet(*categoriesPath)
		if err != nil {
			logger.Error("failed to load categories", "path", *categoriesPath, "error", err)
			os.Exit(1)
		}
		set = loaded
	}

	client := ollama.NewClient(ollama.Config{
		Host:        cfg.Ollama.Host,
		Port:        cfg.Ollama.Port,
		Model:       cfg.Ollama.Model,
		Temperature: cfg.Ollama.Temperature,
		Timeout:     cfg.Ollama.Timeout,
	}, logger)
	defer client.Close()
	if !client.CheckConnection(ctx) {
		logger.Error("Ollama is unreachable; is it running?",
			"host", cfg.Ollama.Host, "port", cfg.Ollama.Port)
		os.Exit(1)
	}

	cat, err := categorizer.New(client, set, categorizer.Config{BatchSize: cfg.Pipeline.BatchSize}, logger)
	if err != nil {
		logger.Error("failed to build categorizer", "error", err)
		os.Exit(1)
	}

	raw := make([]entity.RawTransaction, len(previous))
	for i, tx := range previous {
		raw[i] = tx.RawTransaction
	}
	result, stats, err := cat.Categorize(ctx, raw)
	if err != nil {
		logger.Error("recategorization failed", "error", err)
		os.Exit(1)
	}

	changed := 0
	for i, tx := range result {
		old := previous[i].Category
		if old == tx.Category {
			continue
		}
		changed++
		if *showChanges || *dryRun {
			fmt.Printf("%s  %-40s  %s -> %s\n",
				tx.Date.Format("2006-01-02"), truncateDesc(tx.Description, 40), old, tx.Category)
		}
	}

	fmt.Printf("Recategorized %d transactions: %d changed, %d misses\n",
		len(result), changed, stats.Misses)
	if *dryRun {
		return
	}

	f, err := os.Create(outPath)
	if err != nil {
		logger.Error("failed to create output", "path", outPath, "error", err)
		os.Exit(1)
	}
	if err := export.WriteLedgerCSV(f, result); err != nil {
		_ = f.Close()
		logger.Error("failed to write output", "path", outPath, "error", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		logger.Error("failed to close output", "path", outPath, "error", err)
		os.Exit(1)
	}
	fmt.Printf("- Output: %s\n", outPath)
}

// loadTransactions resolves the input: the latest stored run, or a ledger
// CSV. It also picks the default output path.
func loadTransactions(ctx context.Context, cfg *common.Config, fromStore bool, args []string, output string, logger *slog.Logger) ([]entity.CategorizedTransaction, string, error) {
	if fromStore {
		if cfg.Store.Path == "" {
			return nil, "", fmt.Errorf("-from-store requires RUN_STORE_PATH")
		}
		db, err := repository.Open(ctx, cfg.Store.Path, logger)
		if err != nil {
			return nil, "", err
		}
		defer repository.Close(db, logger)

		runs := repository.NewRunRepository(db, logger)
		run, err := runs.LatestRun(ctx)
		if err != nil {
			return nil, "", err
		}
		txs, err := runs.ListTransactions(ctx, run.ID)
		if err != nil {
			return nil, "", err
		}
		logger.Info("loaded stored run", "run_id", run.ID.String(), "transactions", len(txs))
		if output == "" {
			output = "recategorized.csv"
		}
		return txs, output, nil
	}

	input := args[0]
	f, err := os.Open(input)
	if err != nil {
		return nil, "", fmt.Errorf("open %q: %w", input, err)
	}
	defer func() { _ = f.Close() }()

	txs, err := export.ReadLedgerCSV(f)
	if err != nil {
		return nil, "", fmt.Errorf("read %q: %w", input, err)
	}
	if output == "" {
		output = strings.TrimSuffix(input, ".csv") + "_recategorized.csv"
	}
	return txs, output, nil
}

// truncateDesc shortens a description for the change report without ever
// splitting a multibyte rune.
func truncateDesc(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
