package service

import (
	"context"
	"errors"
	"testing"

	"formdesk/internal/authz"
	"formdesk/internal/model"
)

func formsAdmin(id string) authz.Principal {
	return authz.Principal{
		ID:            id,
		Role:          model.RoleAdmin,
		Perms:         model.ModulePermissions{Forms: true},
		Authenticated: true,
	}
}

func superadmin(id string) authz.Principal {
	return authz.Principal{ID: id, Role: model.RoleSuperAdmin, Authenticated: true}
}

func TestCreateFormStartsAsDraft(t *testing.T) {
	svc := NewFormService(newFakeFormRepo())

	form, err := svc.Create(context.Background(), formsAdmin("a1"), FormInput{
		Title: "Lunch order",
		Questions: []model.Question{
			{Title: "Name", Type: model.QuestionShortAnswer, Required: true},
			{Title: "Drink", Type: model.QuestionDropdown, Options: []string{"tea", "coffee"}},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if form.Status != model.FormDraft {
		t.Errorf("status = %q, want %q", form.Status, model.FormDraft)
	}
	if form.CreatedBy != "a1" {
		t.Errorf("createdBy = %q, want a1", form.CreatedBy)
	}
	for i, q := range form.Questions {
		if q.ID == "" {
			t.Errorf("question %d has no id", i)
		}
	}
}

func TestCreateFormRequiresFormsModule(t *testing.T) {
	svc := NewFormService(newFakeFormRepo())

	bare := authz.Principal{ID: "a2", Role: model.RoleAdmin, Authenticated: true}
	if _, err := svc.Create(context.Background(), bare, FormInput{Title: "x"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Create without forms module = %v, want ErrForbidden", err)
	}
}

func TestCreateFormValidatesQuestions(t *testing.T) {
	svc := NewFormService(newFakeFormRepo())

	tests := []struct {
		name  string
		input FormInput
		want  int
	}{
		{
			name: "choice type with one option",
			input: FormInput{
				Title: "Poll",
				Questions: []model.Question{
					{Title: "Pick one", Type: model.QuestionMultipleChoice, Options: []string{"only"}},
				},
			},
			want: 1,
		},
		{
			name: "options on a text question",
			input: FormInput{
				Title: "Poll",
				Questions: []model.Question{
					{Title: "Name", Type: model.QuestionShortAnswer, Options: []string{"a", "b"}},
				},
			},
			want: 1,
		},
		{
			name: "unknown type",
			input: FormInput{
				Title: "Poll",
				Questions: []model.Question{
					{Title: "Mystery", Type: model.QuestionType("TELEPATHY")},
				},
			},
			want: 1,
		},
		{
			name: "everything wrong at once",
			input: FormInput{
				Questions: []model.Question{
					{Type: model.QuestionCheckboxes},
				},
			},
			// missing form title, missing question title, too few options
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), formsAdmin("a1"), tt.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Create = %v, want ValidationError", err)
			}
			if len(verr.Violations) != tt.want {
				t.Errorf("got %d violations, want %d: %v", len(verr.Violations), tt.want, verr.Violations)
			}
		})
	}
}

func TestUpdateFormOwnership(t *testing.T) {
	repo := newFakeFormRepo()
	svc := NewFormService(repo)
	ctx := context.Background()

	owner := formsAdmin("a1")
	form, err := svc.Create(ctx, owner, FormInput{Title: "Survey"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	other := formsAdmin("a2")
	if _, err := svc.Update(ctx, other, form.ID, FormInput{Title: "Hijacked"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Update by non-owner = %v, want ErrForbidden", err)
	}

	// The owner and a superadmin may both edit.
	if _, err := svc.Update(ctx, owner, form.ID, FormInput{Title: "Survey v2"}); err != nil {
		t.Errorf("Update by owner: %v", err)
	}
	if _, err := svc.Update(ctx, superadmin("sa"), form.ID, FormInput{Title: "Survey v3"}); err != nil {
		t.Errorf("Update by superadmin: %v", err)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewFormService(newFakeFormRepo())

	err := svc.SetStatus(context.Background(), formsAdmin("a1"), "form-1", model.FormStatus("FROZEN"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("SetStatus(FROZEN) = %v, want ValidationError", err)
	}
}

func TestSoftDeleteHidesForm(t *testing.T) {
	repo := newFakeFormRepo()
	svc := NewFormService(repo)
	ctx := context.Background()

	owner := formsAdmin("a1")
	form, err := svc.Create(ctx, owner, FormInput{Title: "Old survey"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.SetStatus(ctx, owner, form.ID, model.FormDeleted); err != nil {
		t.Fatalf("SetStatus(DELETED): %v", err)
	}

	if _, err := svc.Get(ctx, owner, form.ID); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("Get after delete = %v, want ErrFormNotFound", err)
	}
	if _, err := svc.GetPublished(ctx, form.ID); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("GetPublished after delete = %v, want ErrFormNotFound", err)
	}

	visible, err := svc.ListMine(ctx, owner, false)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("ListMine without deleted returned %d forms, want 0", len(visible))
	}

	all, err := svc.ListMine(ctx, owner, true)
	if err != nil {
		t.Fatalf("ListMine(includeDeleted): %v", err)
	}
	if len(all) != 1 {
		t.Errorf("ListMine with deleted returned %d forms, want 1", len(all))
	}
}

func TestGetPublishedGatesOnStatus(t *testing.T) {
	repo := newFakeFormRepo()
	svc := NewFormService(repo)
	ctx := context.Background()

	owner := formsAdmin("a1")
	form, err := svc.Create(ctx, owner, FormInput{Title: "Signup"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.GetPublished(ctx, form.ID); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("GetPublished(draft) = %v, want ErrFormNotFound", err)
	}

	if err := svc.SetStatus(ctx, owner, form.ID, model.FormPublished); err != nil {
		t.Fatalf("SetStatus(PUBLISHED): %v", err)
	}
	got, err := svc.GetPublished(ctx, form.ID)
	if err != nil {
		t.Fatalf("GetPublished(published): %v", err)
	}
	if got.ID != form.ID {
		t.Errorf("GetPublished returned %q, want %q", got.ID, form.ID)
	}

	if err := svc.SetStatus(ctx, owner, form.ID, model.FormUnpublished); err != nil {
		t.Fatalf("SetStatus(UNPUBLISHED): %v", err)
	}
	if _, err := svc.GetPublished(ctx, form.ID); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("GetPublished(unpublished) = %v, want ErrFormNotFound", err)
	}
}
