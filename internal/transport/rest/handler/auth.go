package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"formdesk/internal/model"
	"formdesk/internal/service"
)

// AuthHandler handles login, refresh and logout
type AuthHandler struct {
	authSvc    *service.AuthService
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authSvc:    authSvc,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setAuthCookie(w, "access_token", resp.AccessToken, h.accessTTL)
	setAuthCookie(w, "refresh_token", resp.RefreshToken, h.refreshTTL)
	writeJSON(w, http.StatusOK, resp)
}

// Refresh handles POST /v1/auth/refresh. It mints a fresh access token from
// the refresh cookie; clients call it exactly once after a 401 before
// falling back to login.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	access, err := h.authSvc.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setAuthCookie(w, "access_token", access, h.accessTTL)
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": access})
}

// Logout handles POST /v1/auth/logout by expiring both cookies
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	setAuthCookie(w, "access_token", "", -time.Hour)
	setAuthCookie(w, "refresh_token", "", -time.Hour)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func setAuthCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
