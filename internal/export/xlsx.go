package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/budget-automation/statement-categorizer/internal/entity"
)

const (
	transactionsSheet = "Transactions"
	summarySheet      = "Summary"
)

// WorkbookXLSX builds an XLSX workbook with a Transactions sheet (one row per
// transaction, run order preserved) and a Summary sheet (per-category totals
// plus a Total row) and returns it as bytes.
func WorkbookXLSX(txs []entity.CategorizedTransaction, summary entity.Summary, set *entity.CategorySet, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	// excelize seeds new files with "Sheet1"; rename it rather than leaving
	// an empty default sheet in the workbook.
	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	if err := writeTransactionsSheet(f, txs); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, summary, set); err != nil {
		return nil, err
	}

	activeIndex, _ := f.GetSheetIndex(transactionsSheet)
	f.SetActiveSheet(activeIndex)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"transactions", len(txs),
		"categories", len(summary),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeTransactionsSheet(f *excelize.File, txs []entity.CategorizedTransaction) error {
	headers := []string{"Date", "Description", "Amount", "Category"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(transactionsSheet, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(transactionsSheet, cell, v)
	}
	for i, tx := range txs {
		row := i + 2
		write(1, row, tx.Date.Format("2006-01-02"))
		write(2, row, tx.Description)
		amount, _ := tx.Amount.Round(2).Float64()
		write(3, row, amount)
		write(4, row, tx.Category)
	}

	_ = f.SetColWidth(transactionsSheet, "A", "A", 14)
	_ = f.SetColWidth(transactionsSheet, "B", "B", 48)
	_ = f.SetColWidth(transactionsSheet, "C", "C", 14)
	_ = f.SetColWidth(transactionsSheet, "D", "D", 22)
	return nil
}

func writeSummarySheet(f *excelize.File, summary entity.Summary, set *entity.CategorySet) error {
	for i, h := range []string{"Category", "Total"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return fmt.Errorf("xlsx header: %w", err)
		}
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(summarySheet, cell, v)
	}
	row := 2
	for _, name := range summary.SortedNames(set) {
		total, _ := summary[name].Round(2).Float64()
		write(1, row, name)
		write(2, row, total)
		row++
	}
	total, _ := summary.Total().Float64()
	write(1, row, "Total")
	write(2, row, total)

	_ = f.SetColWidth(summarySheet, "A", "A", 22)
	_ = f.SetColWidth(summarySheet, "B", "B", 14)
	return nil
}
