package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"formdesk/internal/authz"
	"formdesk/internal/model"
	"formdesk/internal/repository"
)

// FormService handles form CRUD and the status lifecycle. Question
// invariants are enforced here, at save time, so submissions never see a
// malformed form.
type FormService struct {
	formRepo repository.FormRepo
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepo) *FormService {
	return &FormService{
		formRepo: formRepo,
	}
}

// FormInput is the mutable part of a form as sent by the admin portal
type FormInput struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Questions         []model.Question `json:"questions"`
	AllowEditResponse bool             `json:"allowEditResponse"`
	GoogleSheetURL    string           `json:"googleSheetUrl"`
	RedirectURL       string           `json:"redirectUrl"`
}

// Create saves a new form in DRAFT for the calling admin
func (s *FormService) Create(ctx context.Context, principal authz.Principal, input FormInput) (*model.Form, error) {
	if d := authz.Resolve(principal, authz.ActionManageForms, authz.Resource{}); !d.Allowed() {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	form := &model.Form{
		Title:             input.Title,
		Description:       input.Description,
		Questions:         input.Questions,
		Status:            model.FormDraft,
		AllowEditResponse: input.AllowEditResponse,
		GoogleSheetURL:    input.GoogleSheetURL,
		RedirectURL:       input.RedirectURL,
		CreatedBy:         principal.ID,
	}

	if err := normalizeQuestions(form); err != nil {
		return nil, err
	}

	id, err := s.formRepo.Create(ctx, form)
	if err != nil {
		return nil, err
	}
	form.ID = id
	return form, nil
}

// Update replaces the mutable fields of an existing form
func (s *FormService) Update(ctx context.Context, principal authz.Principal, formID string, input FormInput) (*model.Form, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}

	if d := authz.Resolve(principal, authz.ActionMutateForm, authz.Resource{OwnerID: form.CreatedBy}); !d.Allowed() {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	form.Title = input.Title
	form.Description = input.Description
	form.Questions = input.Questions
	form.AllowEditResponse = input.AllowEditResponse
	form.GoogleSheetURL = input.GoogleSheetURL
	form.RedirectURL = input.RedirectURL

	if err := normalizeQuestions(form); err != nil {
		return nil, err
	}

	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

// SetStatus drives the explicit lifecycle transitions, including soft delete
func (s *FormService) SetStatus(ctx context.Context, principal authz.Principal, formID string, status model.FormStatus) error {
	switch status {
	case model.FormPublished, model.FormUnpublished, model.FormArchived, model.FormDeleted:
	default:
		return validationError([]FieldViolation{{Field: "status", Message: "invalid status transition"}})
	}

	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return err
	}
	if form == nil {
		return ErrFormNotFound
	}

	action := authz.ActionMutateForm
	if status == model.FormDeleted {
		action = authz.ActionDeleteForm
	}
	if d := authz.Resolve(principal, action, authz.Resource{OwnerID: form.CreatedBy}); !d.Allowed() {
		return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	return s.formRepo.UpdateStatus(ctx, formID, status)
}

// Get returns a form for the admin portal; DELETED forms read as not found
func (s *FormService) Get(ctx context.Context, principal authz.Principal, formID string) (*model.Form, error) {
	if d := authz.Resolve(principal, authz.ActionManageForms, authz.Resource{}); !d.Allowed() {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}

	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// GetPublished returns a form for the fill view. Anything but PUBLISHED
// reads as not found so drafts never leak to respondents.
func (s *FormService) GetPublished(ctx context.Context, formID string) (*model.Form, error) {
	form, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form == nil || form.Status != model.FormPublished {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// List returns a paginated page of non-deleted forms
func (s *FormService) List(ctx context.Context, principal authz.Principal, q model.PageQuery) ([]*model.Form, int64, error) {
	if d := authz.Resolve(principal, authz.ActionManageForms, authz.Resource{}); !d.Allowed() {
		return nil, 0, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
	return s.formRepo.List(ctx, q)
}

// ListMine returns the caller's own forms; includeDeleted opens the
// owner-scoped historical view that soft delete otherwise hides.
func (s *FormService) ListMine(ctx context.Context, principal authz.Principal, includeDeleted bool) ([]*model.Form, error) {
	if d := authz.Resolve(principal, authz.ActionManageForms, authz.Resource{}); !d.Allowed() {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
	return s.formRepo.ListByCreator(ctx, principal.ID, includeDeleted)
}

// normalizeQuestions assigns ids to new questions and enforces the
// save-time invariants in one collected pass.
func normalizeQuestions(form *model.Form) error {
	var violations []FieldViolation

	if form.Title == "" {
		violations = append(violations, FieldViolation{Field: "title", Message: "title is required"})
	}

	for i := range form.Questions {
		q := &form.Questions[i]
		if q.ID == "" {
			q.ID = uuid.New().String()
		}
		field := fmt.Sprintf("questions[%d]", i)

		if q.Title == "" {
			violations = append(violations, FieldViolation{Field: field, Message: "question title is required"})
		}
		if !q.Type.Valid() {
			violations = append(violations, FieldViolation{Field: field, Message: fmt.Sprintf("unknown question type %q", q.Type)})
			continue
		}
		if q.Type.NeedsOptions() && len(q.Options) < model.MinChoiceOptions {
			violations = append(violations, FieldViolation{
				Field:   field,
				Message: fmt.Sprintf("%s questions need at least %d options", q.Type, model.MinChoiceOptions),
			})
		}
		if !q.Type.NeedsOptions() && len(q.Options) > 0 {
			violations = append(violations, FieldViolation{Field: field, Message: fmt.Sprintf("%s questions do not take options", q.Type)})
		}
	}

	return validationError(violations)
}
