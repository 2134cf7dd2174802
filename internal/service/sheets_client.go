package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetWriter abstracts the external spreadsheet. Append returns the 1-based
// row the values landed on; Update rewrites a previously appended row.
type SheetWriter interface {
	Append(ctx context.Context, sheetRef string, row []string) (int64, error)
	Update(ctx context.Context, sheetRef string, rowNumber int64, row []string) error
}

// GoogleSheetsWriter talks to the Google Sheets v4 API
type GoogleSheetsWriter struct {
	svc *sheets.Service
}

// NewGoogleSheetsWriter creates a writer authenticated by a service account
// credentials file.
func NewGoogleSheetsWriter(ctx context.Context, credentialsFile string) (*GoogleSheetsWriter, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleSheetsWriter{svc: svc}, nil
}

func (w *GoogleSheetsWriter) Append(ctx context.Context, sheetRef string, row []string) (int64, error) {
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(row)}}

	resp, err := w.svc.Spreadsheets.Values.
		Append(SpreadsheetID(sheetRef), "A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("append row: %w", err)
	}
	if resp.Updates == nil {
		return 0, fmt.Errorf("append row: no update info in response")
	}

	return rowFromRange(resp.Updates.UpdatedRange)
}

func (w *GoogleSheetsWriter) Update(ctx context.Context, sheetRef string, rowNumber int64, row []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toCells(row)}}

	_, err := w.svc.Spreadsheets.Values.
		Update(SpreadsheetID(sheetRef), fmt.Sprintf("A%d", rowNumber), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update row %d: %w", rowNumber, err)
	}
	return nil
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

// SpreadsheetID accepts either a bare spreadsheet id or a full
// docs.google.com URL and returns the id.
func SpreadsheetID(sheetRef string) string {
	const marker = "/spreadsheets/d/"
	idx := strings.Index(sheetRef, marker)
	if idx < 0 {
		return sheetRef
	}
	id := sheetRef[idx+len(marker):]
	if cut := strings.IndexAny(id, "/?#"); cut >= 0 {
		id = id[:cut]
	}
	return id
}

// rowFromRange extracts the row number from an A1 range like "Sheet1!A5:F5"
func rowFromRange(a1 string) (int64, error) {
	if bang := strings.Index(a1, "!"); bang >= 0 {
		a1 = a1[bang+1:]
	}
	if colon := strings.Index(a1, ":"); colon >= 0 {
		a1 = a1[:colon]
	}
	digits := strings.TrimLeft(a1, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	row, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || row < 1 {
		return 0, fmt.Errorf("cannot parse row from range %q", a1)
	}
	return row, nil
}
