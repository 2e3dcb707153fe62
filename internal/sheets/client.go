package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client is the narrow spreadsheet surface the uploader needs. The production
// implementation talks to the Google Sheets API; tests substitute a fake.
type Client interface {
	SheetExists(ctx context.Context, spreadsheetID, title string) (bool, error)
	DuplicateSheet(ctx context.Context, spreadsheetID, template, target string) error
	ReadCells(ctx context.Context, spreadsheetID, sheet string, cells []string) (map[string]string, error)
	WriteCells(ctx context.Context, spreadsheetID, sheet string, values map[string]float64) error
}

type apiClient struct {
	svc    *sheets.Service
	logger *slog.Logger
}

// NewClient builds a Sheets API client authenticated with a service-account
// key file. The spreadsheet must be shared with the service account's email.
func NewClient(ctx context.Context, credentialsPath string, logger *slog.Logger) (Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &apiClient{svc: svc, logger: logger}, nil
}

func (c *apiClient) sheetID(ctx context.Context, spreadsheetID, title string) (int64, bool, error) {
	ss, err := c.svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("get spreadsheet %q: %w", spreadsheetID, err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return sh.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}

func (c *apiClient) SheetExists(ctx context.Context, spreadsheetID, title string) (bool, error) {
	_, ok, err := c.sheetID(ctx, spreadsheetID, title)
	return ok, err
}

func (c *apiClient) DuplicateSheet(ctx context.Context, spreadsheetID, template, target string) error {
	id, ok, err := c.sheetID(ctx, spreadsheetID, template)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("template sheet %q not found in spreadsheet %q", template, spreadsheetID)
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DuplicateSheet: &sheets.DuplicateSheetRequest{
				SourceSheetId: id,
				NewSheetName:  target,
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("duplicate sheet %q -> %q: %w", template, target, err)
	}
	c.logger.Info("sheets.duplicated", "template", template, "target", target)
	return nil
}

func (c *apiClient) ReadCells(ctx context.Context, spreadsheetID, sheet string, cells []string) (map[string]string, error) {
	call := c.svc.Spreadsheets.Values.BatchGet(spreadsheetID).Context(ctx)
	for _, cell := range cells {
		call = call.Ranges(fmt.Sprintf("'%s'!%s", sheet, cell))
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("read cells: %w", err)
	}

	out := make(map[string]string, len(cells))
	for i, vr := range resp.ValueRanges {
		if i >= len(cells) {
			break
		}
		value := ""
		if len(vr.Values) > 0 && len(vr.Values[0]) > 0 {
			value = fmt.Sprintf("%v", vr.Values[0][0])
		}
		out[cells[i]] = value
	}
	return out, nil
}

func (c *apiClient) WriteCells(ctx context.Context, spreadsheetID, sheet string, values map[string]float64) error {
	data := make([]*sheets.ValueRange, 0, len(values))
	for cell, v := range values {
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("'%s'!%s", sheet, cell),
			Values: [][]any{{v}},
		})
	}
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	if _, err := c.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("write cells: %w", err)
	}
	c.logger.Info("sheets.cells_written", "sheet", sheet, "cells", len(values))
	return nil
}
