package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/budget-automation/statement-categorizer/constants"
	"github.com/budget-automation/statement-categorizer/internal/entity"
	"github.com/budget-automation/statement-categorizer/internal/llm"
)

// DefaultBatchSize balances inference latency against the odds of a model
// losing track of items in a long batch.
const DefaultBatchSize = 15

// Config holds categorizer tuning.
type Config struct {
	BatchSize int
}

// Stats reports what the fallback machinery did during one invocation.
type Stats struct {
	Batches       int // batch requests issued
	BatchRetries  int // batches re-issued per-item wholesale
	ItemFallbacks int // individual requests issued
	Misses        int // transactions forced to "Other"
}

// Categorizer assigns one category from a closed set to every transaction.
// It holds no state across invocations beyond the configured set and batch
// size, so one instance may serve many documents.
type Categorizer struct {
	client       llm.StructuredClient
	set          *entity.CategorySet
	cfg          Config
	system       string
	batchSchema  map[string]any
	singleSchema map[string]any
	logger       *slog.Logger
}

func New(client llm.StructuredClient, set *entity.CategorySet, cfg Config, logger *slog.Logger) (*Categorizer, error) {
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("category set: %w", err)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	// The schema enum must admit the reserved fallback the prompt offers.
	names := append(set.Names(), constants.OtherCategory)
	return &Categorizer{
		client:       client,
		set:          set,
		cfg:          cfg,
		system:       buildSystemPrompt(set),
		batchSchema:  llm.BuildBatchCategorizationSchema(names),
		singleSchema: llm.BuildSingleCategorizationSchema(names),
		logger:       logger,
	}, nil
}

type assignment struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

type batchResponse struct {
	Assignments []assignment `json:"assignments"`
}

type singleResponse struct {
	Category string `json:"category"`
}

// Categorize returns one CategorizedTransaction per input, same order. The
// only error it surfaces is context cancellation; every inference failure is
// absorbed by the batch → per-item → "Other" degradation.
func (c *Categorizer) Categorize(ctx context.Context, txs []entity.RawTransaction) ([]entity.CategorizedTransaction, Stats, error) {
	var stats Stats
	if len(txs) == 0 {
		return nil, stats, nil
	}

	out := make([]entity.CategorizedTransaction, 0, len(txs))
	batches := (len(txs) + c.cfg.BatchSize - 1) / c.cfg.BatchSize
	c.logger.Info("categorizer.start", "transactions", len(txs), "batches", batches)

	for start := 0; start < len(txs); start += c.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		end := start + c.cfg.BatchSize
		if end > len(txs) {
			end = len(txs)
		}
		batch := txs[start:end]
		batchNum := start/c.cfg.BatchSize + 1

		results := c.categorizeBatch(ctx, batch, batchNum, &stats)
		out = append(out, results...)
	}

	c.logger.Info("categorizer.done",
		"transactions", len(out),
		"batches", stats.Batches,
		"batch_retries", stats.BatchRetries,
		"item_fallbacks", stats.ItemFallbacks,
		"misses", stats.Misses,
	)
	return out, stats, nil
}

// categorizeBatch issues one batch request, reconciles the response against
// the inputs, and degrades to per-item requests for anything unresolved. If
// the response is wholly unusable, or more than half the batch is unresolved
// (a systemic batch failure, not a stray miss), the whole batch goes per-item.
func (c *Categorizer) categorizeBatch(ctx context.Context, batch []entity.RawTransaction, batchNum int, stats *Stats) []entity.CategorizedTransaction {
	stats.Batches++

	resolved, usable := c.requestBatch(ctx, batch, batchNum)
	if !usable {
		stats.BatchRetries++
		c.logger.Warn("categorizer.batch.fallback", "batch", batchNum, "size", len(batch))
		return c.categorizeIndividually(ctx, batch, stats)
	}

	unresolved := 0
	for i := range batch {
		if resolved[i] == "" {
			unresolved++
		}
	}
	if unresolved*2 > len(batch) {
		stats.BatchRetries++
		c.logger.Warn("categorizer.batch.systemic_failure",
			"batch", batchNum, "unresolved", unresolved, "size", len(batch))
		return c.categorizeIndividually(ctx, batch, stats)
	}

	out := make([]entity.CategorizedTransaction, 0, len(batch))
	for i, tx := range batch {
		category := resolved[i]
		if category == "" {
			c.logger.Warn("categorizer.item.unresolved",
				"batch", batchNum, "description", tx.Description)
			category = c.categorizeSingle(ctx, tx, stats)
		}
		out = append(out, entity.CategorizedTransaction{RawTransaction: tx, Category: category})
	}
	return out
}

// requestBatch returns per-input categories (empty string = unresolved) and
// whether the batch response was usable at all.
func (c *Categorizer) requestBatch(ctx context.Context, batch []entity.RawTransaction, batchNum int) ([]string, bool) {
	var lines strings.Builder
	for _, tx := range batch {
		lines.WriteString("- ")
		lines.WriteString(tx.Description)
		lines.WriteString("\n")
	}

	raw, err := c.client.GenerateStructured(ctx, llm.GenerateRequest{
		System: c.system,
		Prompt: fmt.Sprintf(categorizeBatchPrompt, strings.TrimRight(lines.String(), "\n")),
		Schema: c.batchSchema,
	})
	if err != nil {
		c.logger.Warn("categorizer.batch.request_failed", "batch", batchNum, "error", err)
		return nil, false
	}

	var resp batchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.logger.Warn("categorizer.batch.decode_failed", "batch", batchNum, "error", err)
		return nil, false
	}
	if len(resp.Assignments) == 0 {
		return nil, false
	}

	// Index returned pairs by normalized description; pairs with an
	// out-of-set category are ignored, leaving their transaction unresolved.
	// Response order is kept so the partial-match scan below resolves the
	// same way on every run.
	type pair struct{ key, category string }
	byDesc := make(map[string]string, len(resp.Assignments))
	ordered := make([]pair, 0, len(resp.Assignments))
	for _, a := range resp.Assignments {
		if !c.set.Contains(a.Category) {
			c.logger.Warn("categorizer.batch.out_of_set",
				"batch", batchNum, "description", a.Description, "category", a.Category)
			continue
		}
		key := normalizeKey(a.Description)
		if _, seen := byDesc[key]; seen {
			continue
		}
		byDesc[key] = a.Category
		ordered = append(ordered, pair{key, a.Category})
	}

	resolved := make([]string, len(batch))
	for i, tx := range batch {
		key := normalizeKey(tx.Description)
		if cat, ok := byDesc[key]; ok {
			resolved[i] = cat
			continue
		}
		// Partial match tolerates a model echoing a truncated or padded
		// description back; the first returned pair that matches wins.
		for _, p := range ordered {
			if strings.Contains(key, p.key) || strings.Contains(p.key, key) {
				resolved[i] = p.category
				break
			}
		}
	}
	return resolved, true
}

func (c *Categorizer) categorizeIndividually(ctx context.Context, batch []entity.RawTransaction, stats *Stats) []entity.CategorizedTransaction {
	out := make([]entity.CategorizedTransaction, 0, len(batch))
	for _, tx := range batch {
		out = append(out, entity.CategorizedTransaction{
			RawTransaction: tx,
			Category:       c.categorizeSingle(ctx, tx, stats),
		})
	}
	return out
}

// categorizeSingle is the per-item fallback. It is the only path that assigns
// "Other" by default; each forced assignment is logged as a categorization
// miss with enough context to correct manually.
func (c *Categorizer) categorizeSingle(ctx context.Context, tx entity.RawTransaction, stats *Stats) string {
	stats.ItemFallbacks++

	raw, err := c.client.GenerateStructured(ctx, llm.GenerateRequest{
		System: c.system,
		Prompt: "Categorize this transaction: " + tx.Description,
		Schema: c.singleSchema,
	})
	if err == nil {
		var resp singleResponse
		if jsonErr := json.Unmarshal(raw, &resp); jsonErr == nil && c.set.Contains(resp.Category) {
			return resp.Category
		}
	}

	stats.Misses++
	c.logger.Warn("categorizer.miss",
		"description", tx.Description,
		"date", tx.Date.Format("2006-01-02"),
		"amount", tx.Amount.Round(2).String(),
	)
	return constants.OtherCategory
}

func normalizeKey(s string) string {
	return strings.ToLower(entity.NormalizeDescription(s))
}
