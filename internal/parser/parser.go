package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-automation/statement-categorizer/internal/common"
	"github.com/budget-automation/statement-categorizer/internal/entity"
	"github.com/budget-automation/statement-categorizer/internal/extract"
	"github.com/budget-automation/statement-categorizer/internal/llm"
)

// Config holds parse-stage tuning.
type Config struct {
	StatementYear int // year assumed for dates without one; 0 = current year
}

// Parser converts the ordered page texts of one document into a deduplicated
// sequence of RawTransaction, one inference call per page.
type Parser struct {
	client llm.StructuredClient
	cfg    Config
	schema map[string]any
	logger *slog.Logger
}

func New(client llm.StructuredClient, cfg Config, logger *slog.Logger) *Parser {
	if cfg.StatementYear == 0 {
		cfg.StatementYear = time.Now().Year()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		client: client,
		cfg:    cfg,
		schema: llm.BuildExtractionSchema(),
		logger: logger,
	}
}

type extractedTransaction struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
}

type extractionResponse struct {
	Transactions []extractedTransaction `json:"transactions"`
}

// Parse issues one schema-constrained request per page, merges candidates in
// first-seen order, and collapses duplicate (date, description, amount)
// triples. A failed page contributes nothing but never aborts the document;
// only a document where every page failed surfaces ErrBackendUnavailable.
func (p *Parser) Parse(ctx context.Context, doc extract.Document) ([]entity.RawTransaction, error) {
	var (
		out        []entity.RawTransaction
		seen       = make(map[string]struct{})
		pagesFail  int
		candidates int
	)

	for i, page := range doc.Pages {
		pageNum := i + 1
		resp, err := p.parsePage(ctx, page)
		if err != nil {
			pagesFail++
			p.logger.Warn("parser.page.failed",
				"document", doc.Name, "page", pageNum, "error", err)
			continue
		}
		candidates += len(resp.Transactions)

		for _, c := range resp.Transactions {
			tx, ok := p.toRawTransaction(doc.Name, pageNum, c)
			if !ok {
				continue
			}
			key := tx.DedupKey()
			if _, dup := seen[key]; dup {
				// Commonly a transaction echoed across a page boundary. Two
				// genuinely distinct same-day, same-amount purchases at one
				// merchant collapse here as well; known limitation.
				p.logger.Debug("parser.duplicate.collapsed",
					"document", doc.Name, "page", pageNum, "description", tx.Description)
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tx)
		}
	}

	if len(doc.Pages) > 0 && pagesFail == len(doc.Pages) {
		return nil, fmt.Errorf("all %d pages of %q failed: %w",
			len(doc.Pages), doc.Name, common.ErrBackendUnavailable)
	}

	p.logger.Info("parser.document.ok",
		"document", doc.Name,
		"pages", len(doc.Pages),
		"pages_failed", pagesFail,
		"candidates", candidates,
		"transactions", len(out),
	)
	return out, nil
}

func (p *Parser) parsePage(ctx context.Context, pageText string) (*extractionResponse, error) {
	raw, err := p.client.GenerateStructured(ctx, llm.GenerateRequest{
		System: parseSystemPrompt,
		Prompt: parseUserPrompt + pageText,
		Schema: p.schema,
	})
	if err != nil {
		return nil, err
	}
	var resp extractionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}
	return &resp, nil
}

// toRawTransaction validates and normalizes one candidate. Unparseable dates
// or amounts and statement artifacts drop the candidate with a warning; they
// never abort the page.
func (p *Parser) toRawTransaction(docName string, page int, c extractedTransaction) (entity.RawTransaction, bool) {
	desc := entity.NormalizeDescription(c.Description)
	if desc == "" {
		return entity.RawTransaction{}, false
	}
	if isStatementArtifact(desc) {
		p.logger.Debug("parser.candidate.artifact",
			"document", docName, "page", page, "description", desc)
		return entity.RawTransaction{}, false
	}

	date, err := parseDate(c.Date, p.cfg.StatementYear)
	if err != nil {
		p.logger.Warn("parser.candidate.bad_date",
			"document", docName, "page", page, "date", c.Date, "description", desc)
		return entity.RawTransaction{}, false
	}

	amount, err := decimal.NewFromString(c.Amount.String())
	if err != nil {
		p.logger.Warn("parser.candidate.bad_amount",
			"document", docName, "page", page, "amount", c.Amount.String(), "description", desc)
		return entity.RawTransaction{}, false
	}

	return entity.RawTransaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
	}, true
}
