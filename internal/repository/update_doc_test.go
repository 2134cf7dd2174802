package repository

import (
	"testing"
	"time"

	"formdesk/internal/model"
)

// Stored documents carry an ObjectID _id while the models carry its hex
// string, so update documents must never include _id: a $set (or replace)
// touching it with a string value is rejected by the server.

func TestFormUpdateDocOmitsImmutableFields(t *testing.T) {
	form := &model.Form{
		ID:                "6a946e43859cb760d1681ac2",
		Title:             "Visitor survey",
		Description:       "front desk",
		Questions:         []model.Question{{ID: "q1", Title: "Name", Type: model.QuestionShortAnswer}},
		Status:            model.FormPublished,
		AllowEditResponse: true,
		GoogleSheetURL:    "sheet-id-1",
		RedirectURL:       "https://example.com/thanks",
		CreatedBy:         "admin-1",
		UpdatedAt:         time.Now(),
	}

	doc := formUpdateDoc(form)
	for _, key := range []string{"_id", "createdBy", "createdAt"} {
		if _, ok := doc[key]; ok {
			t.Errorf("update document must not set %q", key)
		}
	}
	for _, key := range []string{"title", "description", "questions", "status", "allowEditResponse", "googleSheetUrl", "redirectUrl", "updatedAt"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("update document missing mutable field %q", key)
		}
	}
	if doc["title"] != "Visitor survey" {
		t.Errorf("title = %v, want Visitor survey", doc["title"])
	}
	if doc["status"] != model.FormPublished {
		t.Errorf("status = %v, want %v", doc["status"], model.FormPublished)
	}
}

func TestUserUpdateDocOmitsImmutableFields(t *testing.T) {
	user := &model.User{
		ID:                "6a946e43859cb760d1681ac2",
		Name:              "Ada",
		Email:             "ada@example.com",
		PasswordHash:      "$2a$10$hash",
		Role:              model.RoleAdmin,
		EmployeeID:        "E-1001",
		VendorID:          "V-7",
		ModulePermissions: model.ModulePermissions{Forms: true},
		UpdatedAt:         time.Now(),
	}

	doc := userUpdateDoc(user)
	for _, key := range []string{"_id", "createdAt"} {
		if _, ok := doc[key]; ok {
			t.Errorf("update document must not set %q", key)
		}
	}
	for _, key := range []string{"name", "email", "passwordHash", "role", "employeeId", "vendorId", "modulePermissions", "updatedAt"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("update document missing mutable field %q", key)
		}
	}
	if doc["email"] != "ada@example.com" {
		t.Errorf("email = %v, want ada@example.com", doc["email"])
	}
}
