package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/budget-automation/statement-categorizer/constants"
	"github.com/budget-automation/statement-categorizer/internal/categorizer"
	"github.com/budget-automation/statement-categorizer/internal/entity"
	"github.com/budget-automation/statement-categorizer/internal/extract"
	"github.com/budget-automation/statement-categorizer/internal/llm"
	"github.com/budget-automation/statement-categorizer/internal/parser"
)

// Config holds the tuning forwarded to the two inference stages plus the
// run-level switches.
type Config struct {
	Parser      parser.Config
	Categorizer categorizer.Config
	ParseOnly   bool
}

// Result is the outcome of one Run. Transactions appear in document order,
// and within a document in the parser's first-seen order.
type Result struct {
	Transactions []entity.CategorizedTransaction
	Summary      entity.Summary
	Processed    int // documents fully processed
	Skipped      int // documents skipped after extraction or parse failure
	Stats        categorizer.Stats
}

// Orchestrator wires extraction, parsing and categorization into one run over
// a list of statement files. One failed document never aborts the run; the
// run as a whole fails only when every supplied document failed.
type Orchestrator struct {
	client    llm.StructuredClient
	source    extract.TextSource
	set       *entity.CategorySet
	parser    *parser.Parser
	cat       *categorizer.Categorizer
	cfg       Config
	sink      Sink
	logger    *slog.Logger
	closeOnce sync.Once
}

func New(client llm.StructuredClient, source extract.TextSource, set *entity.CategorySet, cfg Config, sink Sink, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = NopSink{}
	} else {
		client = &recordingClient{StructuredClient: client, sink: sink}
	}

	cat, err := categorizer.New(client, set, cfg.Categorizer, logger)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		client: client,
		source: source,
		set:    set,
		parser: parser.New(client, cfg.Parser, logger),
		cat:    cat,
		cfg:    cfg,
		sink:   sink,
		logger: logger,
	}, nil
}

// Run processes each document independently and merges the per-document
// results. An empty path list is a trivially successful run with a
// zero-filled summary.
func (o *Orchestrator) Run(ctx context.Context, paths []string) (Result, error) {
	result := Result{Summary: entity.NewSummary(o.set)}
	if len(paths) == 0 {
		o.logger.Info("pipeline.done", "documents", 0)
		return result, nil
	}

	start := time.Now()
	o.logger.Info("pipeline.start", "documents", len(paths), "parse_only", o.cfg.ParseOnly)

	var lastErr error
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			result.Skipped += len(paths) - i
			return result, err
		}

		txs, stats, err := o.processDocument(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				result.Skipped += len(paths) - i
				return result, ctx.Err()
			}
			result.Skipped++
			lastErr = err
			o.logger.Warn("pipeline.document.skipped", "document", path, "error", err)
			continue
		}

		sub := entity.NewSummary(o.set)
		for _, tx := range txs {
			if !o.cfg.ParseOnly {
				sub.Add(tx)
			}
		}
		result.Summary.Merge(sub)
		result.Transactions = append(result.Transactions, txs...)
		result.Stats.Batches += stats.Batches
		result.Stats.BatchRetries += stats.BatchRetries
		result.Stats.ItemFallbacks += stats.ItemFallbacks
		result.Stats.Misses += stats.Misses
		result.Processed++
	}

	if result.Processed == 0 {
		return result, fmt.Errorf("all %d documents failed: %w", len(paths), lastErr)
	}

	o.logger.Info("pipeline.done",
		"documents", len(paths),
		"processed", result.Processed,
		"skipped", result.Skipped,
		"transactions", len(result.Transactions),
		"misses", result.Stats.Misses,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// processDocument runs the three stages for one file. Extraction and parse
// failures surface as errors so the caller can count the skip; categorization
// never fails short of context cancellation.
func (o *Orchestrator) processDocument(ctx context.Context, path string) ([]entity.CategorizedTransaction, categorizer.Stats, error) {
	var stats categorizer.Stats

	doc, err := o.source.Extract(ctx, path)
	if err != nil {
		return nil, stats, fmt.Errorf("extract %q: %w", path, err)
	}
	for i, page := range doc.Pages {
		o.sink.PageText(doc.Name, i+1, page)
	}
	for _, w := range doc.Warnings {
		o.logger.Warn("pipeline.extract.warning", "document", doc.Name, "warning", w)
	}

	raw, err := o.parser.Parse(ctx, doc)
	if err != nil {
		return nil, stats, fmt.Errorf("parse %q: %w", doc.Name, err)
	}
	o.sink.Artifact("parsed_"+doc.Name, raw)

	if o.cfg.ParseOnly {
		out := make([]entity.CategorizedTransaction, 0, len(raw))
		for _, tx := range raw {
			out = append(out, entity.CategorizedTransaction{
				RawTransaction: tx,
				Category:       constants.ParseOnlyCategory,
			})
		}
		return out, stats, nil
	}

	out, stats, err := o.cat.Categorize(ctx, raw)
	if err != nil {
		return nil, stats, fmt.Errorf("categorize %q: %w", doc.Name, err)
	}
	return out, stats, nil
}

// Close releases the inference client. Safe to call more than once and from
// deferred paths.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.client.Close()
	})
}
