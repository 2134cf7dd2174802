package service

import (
	"context"
	"log"
	"strings"
	"time"

	"formdesk/internal/model"
)

// SheetSync wraps a SheetWriter with the bound the orchestrator relies on:
// every call carries a timeout substantially shorter than the client-facing
// request, so a hanging sheets API cannot stall a submission. There is no
// internal retry; a failed call is a failed call.
type SheetSync struct {
	writer  SheetWriter
	timeout time.Duration
}

// NewSheetSync creates the sync wrapper. A nil writer means the integration
// is not configured and Configured() reports false.
func NewSheetSync(writer SheetWriter, timeout time.Duration) *SheetSync {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SheetSync{
		writer:  writer,
		timeout: timeout,
	}
}

// Configured reports whether a real writer is wired in
func (s *SheetSync) Configured() bool {
	return s != nil && s.writer != nil
}

// Append writes a new row and returns its 1-based row pointer
func (s *SheetSync) Append(ctx context.Context, sheetRef string, row []string) (int64, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.writer.Append(cctx, sheetRef, row)
}

// Update rewrites the row recorded by an earlier Append
func (s *SheetSync) Update(ctx context.Context, sheetRef string, rowNumber int64, row []string) error {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.writer.Update(cctx, sheetRef, rowNumber, row)
}

// BuildRow renders the fixed row shape:
// [userId, userName, userEmail, answer per question in form order].
// Columns follow the form's question order at sync time; if the questions
// changed after a row pointer was recorded, update-by-pointer may misalign
// columns. That drift is accepted, not detected or corrected.
func BuildRow(form *model.Form, user *model.User, response *model.Response) []string {
	row := make([]string, 0, 3+len(form.Questions))
	if user != nil {
		row = append(row, user.ID, user.Name, user.Email)
	} else {
		row = append(row, response.UserID, "", "")
	}

	for _, q := range form.Questions {
		row = append(row, answerCell(response.Answers[q.ID]))
	}
	return row
}

// answerCell flattens a stored answer value into a single cell
func answerCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		log.Printf("sheet sync: unexpected answer value type %T", v)
		return ""
	}
}
