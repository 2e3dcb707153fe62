package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-automation/statement-categorizer/constants"
	"github.com/budget-automation/statement-categorizer/internal/entity"
)

// Run is one pipeline invocation as persisted in the store.
type Run struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     constants.RunStatus
	Model      string
	Documents  int
	Processed  int
	Skipped    int
	Misses     int
}

// RunRepository persists pipeline runs and their categorized transactions so
// a later recategorization pass can reuse parsed output without re-extracting
// the source documents.
type RunRepository interface {
	CreateRun(ctx context.Context, model string, documents int) (*Run, error)
	FinishRun(ctx context.Context, id uuid.UUID, status constants.RunStatus, processed, skipped, misses int) error
	SaveTransactions(ctx context.Context, runID uuid.UUID, txs []entity.CategorizedTransaction) error
	LatestRun(ctx context.Context) (*Run, error)
	ListTransactions(ctx context.Context, runID uuid.UUID) ([]entity.CategorizedTransaction, error)
}

type runRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRunRepository(db *sql.DB, logger *slog.Logger) RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &runRepository{db: db, logger: logger}
}

// ErrNoRuns is returned by LatestRun on an empty store.
var ErrNoRuns = errors.New("no runs recorded")

func (r *runRepository) CreateRun(ctx context.Context, model string, documents int) (*Run, error) {
	run := &Run{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
		Status:    constants.RunStatusRunning,
		Model:     model,
		Documents: documents,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, status, model, documents) VALUES (?, ?, ?, ?, ?)`,
		run.ID.String(), run.StartedAt.Format(time.RFC3339Nano), string(run.Status), run.Model, run.Documents,
	)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	r.logger.Info("store.run.created", "run_id", run.ID.String(), "documents", documents)
	return run, nil
}

func (r *runRepository) FinishRun(ctx context.Context, id uuid.UUID, status constants.RunStatus, processed, skipped, misses int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, processed = ?, skipped = ?, misses = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), string(status), processed, skipped, misses, id.String(),
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	return nil
}

func (r *runRepository) SaveTransactions(ctx context.Context, runID uuid.UUID, txs []entity.CategorizedTransaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (run_id, seq, tx_date, description, amount, category) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare save: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, t := range txs {
		_, err := stmt.ExecContext(ctx,
			runID.String(), i, t.Date.Format("2006-01-02"), t.Description, t.Amount.StringFixed(2), t.Category)
		if err != nil {
			return fmt.Errorf("save transaction %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	r.logger.Info("store.transactions.saved", "run_id", runID.String(), "count", len(txs))
	return nil
}

func (r *runRepository) LatestRun(ctx context.Context) (*Run, error) {
	// rowid reflects insertion order, which is exactly "the latest run";
	// started_at strings don't sort chronologically once fractional seconds
	// of differing widths are involved.
	row := r.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, status, model, documents, processed, skipped, misses
		 FROM runs ORDER BY rowid DESC LIMIT 1`)

	var (
		run        Run
		id         string
		startedAt  string
		finishedAt sql.NullString
		status     string
	)
	err := row.Scan(&id, &startedAt, &finishedAt, &status, &run.Model,
		&run.Documents, &run.Processed, &run.Skipped, &run.Misses)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("load latest run: %w", err)
	}

	run.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("load latest run: %w", err)
	}
	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("load latest run: %w", err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("load latest run: %w", err)
		}
		run.FinishedAt = &t
	}
	run.Status = constants.RunStatus(status)
	return &run, nil
}

func (r *runRepository) ListTransactions(ctx context.Context, runID uuid.UUID) ([]entity.CategorizedTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tx_date, description, amount, category FROM transactions WHERE run_id = ? ORDER BY seq`,
		runID.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions for run %s: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	var out []entity.CategorizedTransaction
	for rows.Next() {
		var dateStr, desc, amountStr, category string
		if err := rows.Scan(&dateStr, &desc, &amountStr, &category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored transaction date %q: %w", dateStr, err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("stored transaction amount %q: %w", amountStr, err)
		}
		out = append(out, entity.CategorizedTransaction{
			RawTransaction: entity.RawTransaction{
				Date:        date.UTC(),
				Description: desc,
				Amount:      amount,
			},
			Category: category,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}
