package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"formdesk/internal/service"
	"formdesk/internal/transport/rest/middleware"
)

// ResponseHandler handles submission and response read endpoints
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// SubmitRequest is the body for POST /v1/responses
type SubmitRequest struct {
	FormID  string                 `json:"formId"`
	Answers map[string]interface{} `json:"answers"`
}

// UpdateRequest is the body for PUT /v1/responses/{id}
type UpdateRequest struct {
	Answers map[string]interface{} `json:"answers"`
}

// Submit handles POST /v1/responses
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FormID == "" {
		writeError(w, http.StatusBadRequest, "formId is required")
		return
	}

	response, err := h.responseSvc.Submit(r.Context(), middleware.GetPrincipal(r.Context()), req.FormID, req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response)
}

// Update handles PUT /v1/responses/{id}
func (h *ResponseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.responseSvc.Update(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["id"], req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// Get handles GET /v1/responses/{id}
func (h *ResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	response, err := h.responseSvc.Get(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// GetMineForForm handles GET /v1/responses/form/{formId}/mine, the
// respondent's own answer set for prefilling an editable form.
func (h *ResponseHandler) GetMineForForm(w http.ResponseWriter, r *http.Request) {
	response, err := h.responseSvc.GetMineForForm(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["formId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// ListMine handles GET /v1/responses/my
func (h *ResponseHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	q := parsePageQuery(r)
	responses, total, err := h.responseSvc.ListMine(r.Context(), middleware.GetPrincipal(r.Context()), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writePage(w, responses, total, q)
}

// ListByForm handles GET /v1/responses/form/{formId}
func (h *ResponseHandler) ListByForm(w http.ResponseWriter, r *http.Request) {
	q := parsePageQuery(r)
	responses, total, err := h.responseSvc.ListByForm(r.Context(), middleware.GetPrincipal(r.Context()), mux.Vars(r)["formId"], q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writePage(w, responses, total, q)
}
