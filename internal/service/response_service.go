package service

import (
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	"formdesk/internal/authz"
	"formdesk/internal/model"
	"formdesk/internal/repository"
)

// Broadcaster pushes live events to admin watchers (implemented by ws.Hub)
type Broadcaster interface {
	BroadcastToForm(formID string, msgType string, payload interface{})
}

// ResponseService orchestrates submissions: resolve the form, gate on its
// status, validate every answer, persist, then attempt the sheet sync. The
// Mongo write is authoritative; once it commits the submission succeeded no
// matter what the sheets API does afterwards.
type ResponseService struct {
	responseRepo repository.ResponseRepo
	formRepo     repository.FormRepo
	userRepo     repository.UserRepo
	sheetSync    *SheetSync
	broadcaster  Broadcaster
}

// NewResponseService creates a new response service
func NewResponseService(responseRepo repository.ResponseRepo, formRepo repository.FormRepo, userRepo repository.UserRepo, sheetSync *SheetSync) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		formRepo:     formRepo,
		userRepo:     userRepo,
		sheetSync:    sheetSync,
	}
}

// SetBroadcaster wires the live feed hub in after construction
func (s *ResponseService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit stores a new response. The principal may be zero-valued for
// anonymous submissions on forms that allow them.
func (s *ResponseService) Submit(ctx context.Context, principal authz.Principal, formID string, answers map[string]interface{}) (*model.Response, error) {
	if principal.Authenticated {
		if d := authz.Resolve(principal, authz.ActionSubmitResponse, authz.Resource{}); !d.Allowed() {
			return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
		}
	}

	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	// Only PUBLISHED forms accept new submissions; everything else,
	// DELETED included, reads as not found.
	if form == nil || form.Status != model.FormPublished {
		return nil, ErrFormNotFound
	}

	if err := validateAnswers(form, answers); err != nil {
		return nil, err
	}

	response := &model.Response{
		FormID:  form.ID,
		UserID:  principal.ID,
		Answers: answers,
	}

	if _, err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, err
	}

	// Persisted: everything below is best-effort and cannot fail the call.
	s.syncAppend(ctx, form, response)
	s.notify(form.ID, "response_received", response)

	response.RedirectURL = form.RedirectURL
	return response, nil
}

// Update edits an existing response when the owning form permits it
func (s *ResponseService) Update(ctx context.Context, principal authz.Principal, responseID string, answers map[string]interface{}) (*model.Response, error) {
	if d := authz.Resolve(principal, authz.ActionEditResponse, authz.Resource{}); !d.Allowed() {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, ErrResponseNotFound
	}

	form, err := s.formRepo.GetByID(ctx, response.FormID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}

	if !form.AllowEditResponse {
		return nil, ErrEditNotAllowed
	}
	if response.UserID == "" || response.UserID != principal.ID {
		return nil, ErrNotOwner
	}

	if err := validateAnswers(form, answers); err != nil {
		return nil, err
	}

	response.Answers = answers
	if err := s.responseRepo.Update(ctx, response); err != nil {
		return nil, err
	}

	s.syncUpdate(ctx, form, response)
	s.notify(form.ID, "response_updated", response)

	response.RedirectURL = form.RedirectURL
	return response, nil
}

// Get returns a single response: its owner, or an admin with the forms module
func (s *ResponseService) Get(ctx context.Context, principal authz.Principal, responseID string) (*model.Response, error) {
	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, ErrResponseNotFound
	}

	if response.UserID == principal.ID {
		return response, nil
	}
	if d := authz.Resolve(principal, authz.ActionViewFormResponses, authz.Resource{}); !d.Allowed() {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
	return response, nil
}

// GetMineForForm returns the caller's response to one form, for prefilling
// the fill view before an edit. No response yet reads as not found.
func (s *ResponseService) GetMineForForm(ctx context.Context, principal authz.Principal, formID string) (*model.Response, error) {
	if d := authz.Resolve(principal, authz.ActionViewOwnData, authz.Resource{}); !d.Allowed() {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	response, err := s.responseRepo.GetByFormAndUser(ctx, formID, principal.ID)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, ErrResponseNotFound
	}
	return response, nil
}

// ListMine returns the caller's own responses
func (s *ResponseService) ListMine(ctx context.Context, principal authz.Principal, q model.PageQuery) ([]*model.Response, int64, error) {
	if d := authz.Resolve(principal, authz.ActionViewOwnData, authz.Resource{}); !d.Allowed() {
		return nil, 0, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
	return s.responseRepo.ListByUser(ctx, principal.ID, q)
}

// ListByForm returns every response for a form, for the admin portal
func (s *ResponseService) ListByForm(ctx context.Context, principal authz.Principal, formID string, q model.PageQuery) ([]*model.Response, int64, error) {
	if d := authz.Resolve(principal, authz.ActionViewFormResponses, authz.Resource{}); !d.Allowed() {
		return nil, 0, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, 0, err
	}
	if form == nil {
		return nil, 0, ErrFormNotFound
	}

	return s.responseRepo.ListByForm(ctx, formID, q)
}

// syncAppend appends a row for a fresh submission. Failures are logged and
// swallowed: never surfaced, never retried here, never rolled back.
func (s *ResponseService) syncAppend(ctx context.Context, form *model.Form, response *model.Response) {
	if form.GoogleSheetURL == "" || !s.sheetSync.Configured() {
		return
	}

	row := BuildRow(form, s.lookupUser(ctx, response.UserID), response)
	rowNumber, err := s.sheetSync.Append(ctx, form.GoogleSheetURL, row)
	if err != nil {
		log.Printf("sheet sync: append failed for response %s on form %s: %v", response.ID, form.ID, err)
		return
	}

	if err := s.responseRepo.SetRowPointer(ctx, response.ID, rowNumber); err != nil {
		log.Printf("sheet sync: row %d written but pointer not stored for response %s: %v", rowNumber, response.ID, err)
		return
	}
	response.GoogleSheetRowNumber = rowNumber
}

// syncUpdate rewrites the previously appended row. A response that was never
// synced has no pointer and is skipped, not retried as an append.
func (s *ResponseService) syncUpdate(ctx context.Context, form *model.Form, response *model.Response) {
	if form.GoogleSheetURL == "" || !s.sheetSync.Configured() {
		return
	}
	if response.GoogleSheetRowNumber == 0 {
		log.Printf("sheet sync: response %s was never synced, skipping update", response.ID)
		return
	}

	row := BuildRow(form, s.lookupUser(ctx, response.UserID), response)
	if err := s.sheetSync.Update(ctx, form.GoogleSheetURL, response.GoogleSheetRowNumber, row); err != nil {
		log.Printf("sheet sync: update failed for response %s row %d: %v", response.ID, response.GoogleSheetRowNumber, err)
	}
}

func (s *ResponseService) lookupUser(ctx context.Context, userID string) *model.User {
	if userID == "" {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("sheet sync: user %s lookup failed: %v", userID, err)
		return nil
	}
	return user
}

func (s *ResponseService) notify(formID, msgType string, response *model.Response) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToForm(formID, msgType, response)
	}
}

// validateAnswers runs the whole validation pass and collects every
// violation instead of stopping at the first.
func validateAnswers(form *model.Form, answers map[string]interface{}) error {
	var violations []FieldViolation

	// Answer keys must be a subset of the form's question ids
	for key := range answers {
		if form.QuestionByID(key) == nil {
			violations = append(violations, FieldViolation{Field: key, Message: "no such question on this form"})
		}
	}

	for _, q := range form.Questions {
		raw, present := answers[q.ID]
		values, ok := answerValues(raw)
		if present && !ok {
			violations = append(violations, FieldViolation{Field: q.ID, Message: "answer has an unsupported shape"})
			continue
		}

		if q.Required && len(values) == 0 {
			violations = append(violations, FieldViolation{Field: q.ID, Message: "answer is required"})
			continue
		}
		if len(values) == 0 {
			continue
		}

		if !q.Type.AllowsMultiple() && len(values) > 1 {
			violations = append(violations, FieldViolation{Field: q.ID, Message: "only one answer allowed"})
			continue
		}

		switch {
		case q.Type == model.QuestionShortAnswer:
			// The cap counts characters, not bytes
			if utf8.RuneCountInString(values[0]) > model.ShortAnswerMaxLen {
				violations = append(violations, FieldViolation{
					Field:   q.ID,
					Message: fmt.Sprintf("answer exceeds %d characters", model.ShortAnswerMaxLen),
				})
			}
		case q.Type.NeedsOptions():
			for _, v := range values {
				if !containsOption(q.Options, v) {
					violations = append(violations, FieldViolation{
						Field:   q.ID,
						Message: fmt.Sprintf("%q is not one of the options", v),
					})
				}
			}
		}
	}

	return validationError(violations)
}

// answerValues flattens a raw answer into its string values. Empty strings
// count as absent so required checks treat "" like a missing answer.
func answerValues(raw interface{}) ([]string, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, true
	case string:
		if v == "" {
			return nil, true
		}
		return []string{v}, true
	case []string:
		return v, true
	case []interface{}:
		values := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			values = append(values, s)
		}
		return values, true
	default:
		return nil, false
	}
}

func containsOption(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
