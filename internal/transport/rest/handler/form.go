package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"formdesk/internal/model"
	"formdesk/internal/service"
	"formdesk/internal/transport/rest/middleware"
)

// FormHandler handles form-builder endpoints
type FormHandler struct {
	formSvc *service.FormService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// Create handles POST /v1/forms
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.FormInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.Create(r.Context(), middleware.GetPrincipal(r.Context()), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

// Update handles PUT /v1/forms/{formId}
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.FormInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.Update(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["formId"], input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Get handles GET /v1/forms/{formId}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.formSvc.Get(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["formId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// GetPublished handles GET /v1/forms/{formId}/public, the fill view
func (h *FormHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	form, err := h.formSvc.GetPublished(r.Context(), mux.Vars(r)["formId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// List handles GET /v1/forms
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	q := parsePageQuery(r)
	forms, total, err := h.formSvc.List(r.Context(), middleware.GetPrincipal(r.Context()), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writePage(w, forms, total, q)
}

// ListMine handles GET /v1/forms/mine
func (h *FormHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	includeDeleted := r.URL.Query().Get("includeDeleted") == "true"
	forms, err := h.formSvc.ListMine(r.Context(), middleware.GetPrincipal(r.Context()), includeDeleted)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"forms": forms})
}

// Publish handles POST /v1/forms/{formId}/publish
func (h *FormHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.FormPublished)
}

// Unpublish handles POST /v1/forms/{formId}/unpublish
func (h *FormHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.FormUnpublished)
}

// Archive handles POST /v1/forms/{formId}/archive
func (h *FormHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.FormArchived)
}

// Delete handles DELETE /v1/forms/{formId}; a soft delete, the document stays
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, model.FormDeleted)
}

func (h *FormHandler) setStatus(w http.ResponseWriter, r *http.Request, status model.FormStatus) {
	err := h.formSvc.SetStatus(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["formId"], status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}
