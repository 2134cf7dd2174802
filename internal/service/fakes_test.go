package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"formdesk/internal/model"
)

// In-memory repository fakes shared by the service tests.

type fakeFormRepo struct {
	forms  map[string]*model.Form
	nextID int
}

func newFakeFormRepo() *fakeFormRepo {
	return &fakeFormRepo{forms: make(map[string]*model.Form)}
}

func (r *fakeFormRepo) Create(ctx context.Context, form *model.Form) (string, error) {
	r.nextID++
	form.ID = fmt.Sprintf("form-%d", r.nextID)
	form.CreatedAt = time.Now()
	form.UpdatedAt = form.CreatedAt
	copied := *form
	r.forms[form.ID] = &copied
	return form.ID, nil
}

func (r *fakeFormRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	form, ok := r.forms[id]
	if !ok || form.Status == model.FormDeleted {
		return nil, nil
	}
	copied := *form
	return &copied, nil
}

func (r *fakeFormRepo) Update(ctx context.Context, form *model.Form) error {
	if _, ok := r.forms[form.ID]; !ok {
		return errors.New("no such form")
	}
	form.UpdatedAt = time.Now()
	copied := *form
	r.forms[form.ID] = &copied
	return nil
}

func (r *fakeFormRepo) UpdateStatus(ctx context.Context, id string, status model.FormStatus) error {
	form, ok := r.forms[id]
	if !ok {
		return errors.New("no such form")
	}
	form.Status = status
	return nil
}

func (r *fakeFormRepo) List(ctx context.Context, q model.PageQuery) ([]*model.Form, int64, error) {
	var out []*model.Form
	for _, f := range r.forms {
		if f.Status == model.FormDeleted {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(f.Title), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, f)
	}
	return out, int64(len(out)), nil
}

func (r *fakeFormRepo) ListByCreator(ctx context.Context, creatorID string, includeDeleted bool) ([]*model.Form, error) {
	var out []*model.Form
	for _, f := range r.forms {
		if f.CreatedBy != creatorID {
			continue
		}
		if f.Status == model.FormDeleted && !includeDeleted {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

type fakeResponseRepo struct {
	responses map[string]*model.Response
	nextID    int
	createErr error
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{responses: make(map[string]*model.Response)}
}

func (r *fakeResponseRepo) Create(ctx context.Context, response *model.Response) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	r.nextID++
	response.ID = fmt.Sprintf("resp-%d", r.nextID)
	response.CreatedAt = time.Now()
	response.UpdatedAt = response.CreatedAt
	copied := *response
	r.responses[response.ID] = &copied
	return response.ID, nil
}

func (r *fakeResponseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	response, ok := r.responses[id]
	if !ok {
		return nil, nil
	}
	copied := *response
	return &copied, nil
}

func (r *fakeResponseRepo) GetByFormAndUser(ctx context.Context, formID, userID string) (*model.Response, error) {
	for _, resp := range r.responses {
		if resp.FormID == formID && resp.UserID == userID {
			copied := *resp
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeResponseRepo) Update(ctx context.Context, response *model.Response) error {
	stored, ok := r.responses[response.ID]
	if !ok {
		return errors.New("no such response")
	}
	stored.Answers = response.Answers
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeResponseRepo) SetRowPointer(ctx context.Context, id string, row int64) error {
	stored, ok := r.responses[id]
	if !ok {
		return errors.New("no such response")
	}
	stored.GoogleSheetRowNumber = row
	return nil
}

func (r *fakeResponseRepo) ListByForm(ctx context.Context, formID string, q model.PageQuery) ([]*model.Response, int64, error) {
	var out []*model.Response
	for _, resp := range r.responses {
		if resp.FormID == formID {
			out = append(out, resp)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeResponseRepo) ListByUser(ctx context.Context, userID string, q model.PageQuery) ([]*model.Response, int64, error) {
	var out []*model.Response
	for _, resp := range r.responses {
		if resp.UserID == userID {
			out = append(out, resp)
		}
	}
	return out, int64(len(out)), nil
}

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) add(user *model.User) *model.User {
	r.nextID++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", r.nextID)
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) (string, error) {
	r.add(user)
	return user.ID, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return errors.New("no such user")
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, q model.PageQuery) ([]*model.User, int64, error) {
	var out []*model.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

type fakeSettingsRepo struct {
	settings *model.SystemSettings
}

func (r *fakeSettingsRepo) GetOrCreate(ctx context.Context) (*model.SystemSettings, error) {
	if r.settings == nil {
		r.settings = &model.SystemSettings{
			HeartbeatWindowHours: model.DefaultHeartbeatWindowHours,
			UpdatedAt:            time.Now(),
		}
	}
	return r.settings, nil
}

func (r *fakeSettingsRepo) Update(ctx context.Context, heartbeatWindowHours float64) (*model.SystemSettings, error) {
	r.settings = &model.SystemSettings{
		HeartbeatWindowHours: heartbeatWindowHours,
		UpdatedAt:            time.Now(),
	}
	return r.settings, nil
}

// fakeSheetWriter records rows and can be told to fail or hang
type fakeSheetWriter struct {
	rows    map[int64][]string
	nextRow int64
	err     error
	delay   time.Duration
	appends int
	updates int
}

func newFakeSheetWriter() *fakeSheetWriter {
	return &fakeSheetWriter{rows: make(map[int64][]string), nextRow: 1}
}

func (w *fakeSheetWriter) Append(ctx context.Context, sheetRef string, row []string) (int64, error) {
	w.appends++
	if w.delay > 0 {
		select {
		case <-time.After(w.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if w.err != nil {
		return 0, w.err
	}
	n := w.nextRow
	w.nextRow++
	w.rows[n] = row
	return n, nil
}

func (w *fakeSheetWriter) Update(ctx context.Context, sheetRef string, rowNumber int64, row []string) error {
	w.updates++
	if w.delay > 0 {
		select {
		case <-time.After(w.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if w.err != nil {
		return w.err
	}
	w.rows[rowNumber] = row
	return nil
}
