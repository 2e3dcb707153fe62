package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
)

// CellUpdate records one cell change for reporting.
type CellUpdate struct {
	Category    string
	Cell        string
	OldValue    float64
	NewValue    float64
	AmountAdded float64
}

// UploadResult is what an upload did (or would do, under dry-run).
type UploadResult struct {
	Updates            []CellUpdate
	UnmappedCategories []string
}

// BudgetUploader adds category totals from a summary CSV into mapped cells of
// a budget spreadsheet, duplicating a template sheet for the target period.
type BudgetUploader struct {
	client Client
	cfg    *SheetConfig
	logger *slog.Logger
}

func NewBudgetUploader(client Client, cfg *SheetConfig, logger *slog.Logger) *BudgetUploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &BudgetUploader{client: client, cfg: cfg, logger: logger}
}

var currencyJunk = regexp.MustCompile(`[$,\s]`)

// parseCurrency tolerates the formats a budget sheet renders: "$ 1,234.56",
// "1234.56", "". Unparseable values count as zero so one odd cell doesn't
// fail the upload.
func parseCurrency(s string) float64 {
	cleaned := currencyJunk.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// LoadSummaryCSV reads category totals from a summary CSV with "category" and
// "total" columns. Repeated categories aggregate; a "Total" row is skipped
// since it duplicates the per-category amounts. When the CSV also carries
// "year" and "month" columns (the summarize command's output), a non-zero
// year or month keeps only the matching rows.
func LoadSummaryCSV(path string, year, month int) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open summary: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readSummary(f, year, month)
}

func readSummary(r io.Reader, year, month int) (map[string]float64, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read summary header: %w", err)
	}

	catCol, totalCol, yearCol, monthCol := -1, -1, -1, -1
	for i, name := range header {
		switch name {
		case "category":
			catCol = i
		case "total":
			totalCol = i
		case "year":
			yearCol = i
		case "month":
			monthCol = i
		}
	}
	if catCol < 0 || totalCol < 0 {
		return nil, fmt.Errorf("summary CSV must have 'category' and 'total' columns, got %v", header)
	}
	hasYearMonth := yearCol >= 0 && monthCol >= 0
	if !hasYearMonth && (year > 0 || month > 0) {
		return nil, fmt.Errorf("summary CSV has no 'year'/'month' columns to filter by")
	}

	totals := make(map[string]float64)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read summary row: %w", err)
		}
		if hasYearMonth {
			if year > 0 {
				if y, err := strconv.Atoi(rec[yearCol]); err != nil || y != year {
					continue
				}
			}
			if month > 0 {
				if m, err := strconv.Atoi(rec[monthCol]); err != nil || m != month {
					continue
				}
			}
		}
		category := rec[catCol]
		if category == "Total" {
			continue
		}
		totals[category] += parseCurrency(rec[totalCol])
	}
	return totals, nil
}

// Upload adds the summary totals into the mapped cells of the target sheet,
// creating it from the template when absent. Year and month (0 = no filter)
// restrict a monthly summary to one period so a multi-month file never lands
// in a single month's budget. With dryRun set, it reads the template and
// reports the updates it would make without writing anything.
func (u *BudgetUploader) Upload(ctx context.Context, summaryPath, targetSheet string, year, month int, dryRun bool) (*UploadResult, error) {
	totals, err := LoadSummaryCSV(summaryPath, year, month)
	if err != nil {
		return nil, err
	}
	u.logger.Info("uploader.summary.loaded",
		"categories", len(totals), "path", summaryPath, "year", year, "month", month)

	if targetSheet == "" {
		targetSheet = u.cfg.TargetSheet
	}
	if targetSheet == "" {
		return nil, fmt.Errorf("no target sheet: pass one or set target_sheet in the config")
	}
	if u.cfg.TemplateSheet == "" {
		return nil, fmt.Errorf("no template_sheet in config")
	}

	readSheet := targetSheet
	if dryRun {
		u.logger.Info("uploader.dry_run", "would_create", targetSheet, "template", u.cfg.TemplateSheet)
		readSheet = u.cfg.TemplateSheet
	} else {
		exists, err := u.client.SheetExists(ctx, u.cfg.SpreadsheetID, targetSheet)
		if err != nil {
			return nil, err
		}
		if !exists {
			if err := u.client.DuplicateSheet(ctx, u.cfg.SpreadsheetID, u.cfg.TemplateSheet, targetSheet); err != nil {
				return nil, err
			}
			if err := u.shallowCopyCells(ctx, targetSheet); err != nil {
				return nil, err
			}
		}
	}

	// Resolve categories to cells. Zero totals are written too, overwriting
	// any template formula in the cell.
	cellCategory := make(map[string]string, len(totals))
	var unmapped []string
	for category := range totals {
		cell := u.cfg.Cell(category)
		if cell == "" {
			if !u.cfg.IsIntentionallyUnmapped(category) {
				u.logger.Warn("uploader.category.unmapped", "category", category)
			}
			unmapped = append(unmapped, category)
			continue
		}
		cellCategory[cell] = category
	}
	if len(cellCategory) == 0 {
		u.logger.Info("uploader.nothing_to_update")
		return &UploadResult{UnmappedCategories: unmapped}, nil
	}

	cells := make([]string, 0, len(cellCategory))
	for cell := range cellCategory {
		cells = append(cells, cell)
	}
	current, err := u.client.ReadCells(ctx, u.cfg.SpreadsheetID, readSheet, cells)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{UnmappedCategories: unmapped}
	newValues := make(map[string]float64, len(cellCategory))
	for cell, category := range cellCategory {
		oldValue := parseCurrency(current[cell])
		amount := totals[category]
		newValues[cell] = oldValue + amount
		result.Updates = append(result.Updates, CellUpdate{
			Category:    category,
			Cell:        cell,
			OldValue:    oldValue,
			NewValue:    oldValue + amount,
			AmountAdded: amount,
		})
	}

	if dryRun {
		u.logger.Info("uploader.dry_run.done", "would_update", len(result.Updates))
		return result, nil
	}
	if err := u.client.WriteCells(ctx, u.cfg.SpreadsheetID, targetSheet, newValues); err != nil {
		return nil, err
	}
	u.logger.Info("uploader.done", "updated", len(result.Updates), "sheet", targetSheet)
	return result, nil
}

// shallowCopyCells replaces configured formula cells with their computed
// values on the freshly duplicated sheet.
func (u *BudgetUploader) shallowCopyCells(ctx context.Context, sheet string) error {
	cells := u.cfg.ShallowCopyCells
	if len(cells) == 0 {
		return nil
	}
	current, err := u.client.ReadCells(ctx, u.cfg.SpreadsheetID, sheet, cells)
	if err != nil {
		return err
	}
	values := make(map[string]float64, len(current))
	for cell, v := range current {
		values[cell] = parseCurrency(v)
	}
	return u.client.WriteCells(ctx, u.cfg.SpreadsheetID, sheet, values)
}
