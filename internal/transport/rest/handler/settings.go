package handler

import (
	"encoding/json"
	"net/http"

	"formdesk/internal/service"
	"formdesk/internal/transport/rest/middleware"
)

// SettingsHandler handles the system settings singleton endpoints
type SettingsHandler struct {
	settingsSvc *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsSvc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// UpdateSettingsRequest is the body for PUT /v1/system-settings
type UpdateSettingsRequest struct {
	HeartbeatWindow float64 `json:"heartbeat_window"`
}

// Get handles GET /v1/system-settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsSvc.Get(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Update handles PUT /v1/system-settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.settingsSvc.Update(r.Context(), middleware.GetPrincipal(r.Context()), req.HeartbeatWindow)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
