package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/budget-automation/statement-categorizer/constants"
	"github.com/budget-automation/statement-categorizer/internal/categorizer"
	"github.com/budget-automation/statement-categorizer/internal/common"
	"github.com/budget-automation/statement-categorizer/internal/entity"
	"github.com/budget-automation/statement-categorizer/internal/export"
	"github.com/budget-automation/statement-categorizer/internal/extract"
	"github.com/budget-automation/statement-categorizer/internal/ingest"
	"github.com/budget-automation/statement-categorizer/internal/llm/ollama"
	"github.com/budget-automation/statement-categorizer/internal/parser"
	"github.com/budget-automation/statement-categorizer/internal/pipeline"
	"github.com/budget-automation/statement-categorizer/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		categoriesPath = flag.String("categories", "", "categories file (JSON or YAML); built-in defaults when empty")
		out            = flag.String("out", "transactions.csv", "output CSV ledger path")
		summaryPath    = flag.String("summary", "", "write a per-category summary CSV to this path")
		xlsxPath       = flag.String("xlsx", "", "write an XLSX workbook to this path")
		parseOnly      = flag.Bool("parse-only", false, "extract and parse only, skip categorization")
		model          = flag.String("model", "", "Ollama model (overrides OLLAMA_MODEL)")
		host           = flag.String("ollama-host", "", "Ollama host (overrides OLLAMA_HOST)")
		batchSize      = flag.Int("batch-size", 0, "categorization batch size (overrides CATEGORIZER_BATCH_SIZE)")
		year           = flag.Int("year", 0, "statement year for dates without one (overrides STATEMENT_YEAR)")
		debugDir       = flag.String("debug", "", "write page text and inference payloads to this directory")
		verbose        = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		printError("Usage: %s [flags] statement.pdf [dir ...]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	// .env is optional; real environment variables win.
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
	if *batchSize > 0 {
		cfg.Pipeline.BatchSize = *batchSize
	}
	if *year > 0 {
		cfg.Pipeline.StatementYear = *year
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, err := expandArgs(flag.Args(), logger)
	if err != nil {
		logger.Error("failed to resolve inputs", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		printError("No statement files found\n")
		os.Exit(1)
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
	if !client.CheckConnection(ctx) {
		logger.Error("Ollama is unreachable; is it running?",
			"host", cfg.Ollama.Host, "port", cfg.Ollama.Port)
		client.Close()
		os.Exit(1)
	}

	registry := extract.NewRegistry()
	registry.Register(constants.PDF, extract.NewPDFSource(extract.PDFConfig{
		Pdftotext: cfg.Pipeline.Pdftotext,
	}, logger))
	registry.Register(constants.TXT, extract.NewTextFileSource())

	var sink pipeline.Sink
	if *debugDir != "" {
		ds, err := pipeline.NewDirSink(*debugDir, logger)
		if err != nil {
			logger.Error("failed to create debug directory", "error", err)
			client.Close()
			os.Exit(1)
		}
		sink = ds
	}

	orch, err := pipeline.New(client, registry, set, pipeline.Config{
		Parser:      parser.Config{StatementYear: cfg.Pipeline.StatementYear},
		Categorizer: categorizer.Config{BatchSize: cfg.Pipeline.BatchSize},
		ParseOnly:   *parseOnly,
	}, sink, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		client.Close()
		os.Exit(1)
	}
	defer orch.Close()

	result, runErr := orch.Run(ctx, paths)
	persistRun(ctx, cfg, result, runErr, len(paths), logger)
	if runErr != nil {
		logger.Error("run failed", "error", runErr)
		os.Exit(1)
	}

	if err := writeOutputs(result, set, *out, *summaryPath, *xlsxPath, *parseOnly, logger); err != nil {
		logger.Error("failed to write outputs", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %d of %d documents (%d skipped)\n",
		result.Processed, len(paths), result.Skipped)
	fmt.Printf("- Transactions: %d\n", len(result.Transactions))
	if !*parseOnly {
		fmt.Printf("- Categorization misses: %d\n", result.Stats.Misses)
		fmt.Printf("- Total: %s\n", result.Summary.Total().StringFixed(2))
	}
	fmt.Printf("- Ledger: %s\n", *out)
}

// expandArgs resolves each argument to statement files: directories are
// scanned recursively, files pass through as given.
func expandArgs(args []string, logger *slog.Logger) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, _, err := ingest.DiscoverStatements(arg, logger)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

// persistRun records the run in the SQLite store when one is configured.
// Store failures are logged, never fatal; the CSV outputs are the product.
func persistRun(ctx context.Context, cfg *common.Config, result pipeline.Result, runErr error, documents int, logger *slog.Logger) {
	if cfg.Store.Path == "" {
		return
	}
	db, err := repository.Open(ctx, cfg.Store.Path, logger)
	if err != nil {
		logger.Warn("run store unavailable", "error", err)
		return
	}
	defer repository.Close(db, logger)

	runs := repository.NewRunRepository(db, logger)
	run, err := runs.CreateRun(ctx, cfg.Ollama.Model, documents)
	if err != nil {
		logger.Warn("failed to record run", "error", err)
		return
	}
	if err := runs.SaveTransactions(ctx, run.ID, result.Transactions); err != nil {
		logger.Warn("failed to save transactions", "error", err)
	}
	status := constants.RunStatusSucceeded
	if runErr != nil {
		status = constants.RunStatusFailed
	}
	if err := runs.FinishRun(ctx, run.ID, status, result.Processed, result.Skipped, result.Stats.Misses); err != nil {
		logger.Warn("failed to finish run", "error", err)
	}
}

func writeOutputs(result pipeline.Result, set *entity.CategorySet, out, summaryPath, xlsxPath string, parseOnly bool, logger *slog.Logger) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %q: %w", out, err)
	}
	if err := export.WriteLedgerCSV(f, result.Transactions); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", out, err)
	}

	if summaryPath != "" && !parseOnly {
		sf, err := os.Create(summaryPath)
		if err != nil {
			return fmt.Errorf("create %q: %w", summaryPath, err)
		}
		if err := export.WriteSummaryCSV(sf, result.Summary, set); err != nil {
			_ = sf.Close()
			return err
		}
		if err := sf.Close(); err != nil {
			return fmt.Errorf("close %q: %w", summaryPath, err)
		}
	}

	if xlsxPath != "" {
		data, err := export.WorkbookXLSX(result.Transactions, result.Summary, set, logger)
		if err != nil {
			return err
		}
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			return fmt.Errorf("write %q: %w", xlsxPath, err)
		}
	}
	return nil
}
