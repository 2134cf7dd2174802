package rest

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"formdesk/internal/service"
	"formdesk/internal/transport/rest/handler"
	"formdesk/internal/transport/rest/middleware"
	"formdesk/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	TokenService    *service.TokenService
	AuthService     *service.AuthService
	FormService     *service.FormService
	ResponseService *service.ResponseService
	UserService     *service.UserService
	SettingsService *service.SettingsService
	WSHub           *ws.Hub

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.AccessTokenTTL, c.RefreshTokenTTL)
	formHandler := handler.NewFormHandler(c.FormService)
	responseHandler := handler.NewResponseHandler(c.ResponseService)
	userHandler := handler.NewUserHandler(c.UserService)
	settingsHandler := handler.NewSettingsHandler(c.SettingsService)
	wsHandler := ws.NewHandler(c.WSHub, c.TokenService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.TokenService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	v1.HandleFunc("/forms/{formId}/public", formHandler.GetPublished).Methods("GET", "OPTIONS")

	// Submission accepts anonymous callers; a token is used when present
	v1.Handle("/responses", authMW.OptionalAuth(http.HandlerFunc(responseHandler.Submit))).Methods("POST", "OPTIONS")

	// WebSocket response feed (token in query param)
	v1.HandleFunc("/ws/forms/{formId}", wsHandler.FormFeed).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes; portal and module checks happen in the resolver
	authed := v1.NewRoute().Subrouter()
	authed.Use(authMW.RequireAuth)

	authed.HandleFunc("/responses/my", responseHandler.ListMine).Methods("GET", "OPTIONS")
	authed.HandleFunc("/responses/form/{formId}/mine", responseHandler.GetMineForForm).Methods("GET", "OPTIONS")
	authed.HandleFunc("/responses/form/{formId}", responseHandler.ListByForm).Methods("GET", "OPTIONS")
	authed.HandleFunc("/responses/{id}", responseHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/responses/{id}", responseHandler.Update).Methods("PUT", "OPTIONS")

	authed.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/forms/mine", formHandler.ListMine).Methods("GET", "OPTIONS")
	authed.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/forms/{formId}", formHandler.Update).Methods("PUT", "OPTIONS")
	authed.HandleFunc("/forms/{formId}", formHandler.Delete).Methods("DELETE", "OPTIONS")
	authed.HandleFunc("/forms/{formId}/publish", formHandler.Publish).Methods("POST", "OPTIONS")
	authed.HandleFunc("/forms/{formId}/unpublish", formHandler.Unpublish).Methods("POST", "OPTIONS")
	authed.HandleFunc("/forms/{formId}/archive", formHandler.Archive).Methods("POST", "OPTIONS")

	authed.HandleFunc("/users", userHandler.List).Methods("GET", "OPTIONS")
	authed.HandleFunc("/users", userHandler.Create).Methods("POST", "OPTIONS")
	authed.HandleFunc("/users/{id}", userHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/users/{id}", userHandler.Update).Methods("PUT", "OPTIONS")

	authed.HandleFunc("/system-settings", settingsHandler.Get).Methods("GET", "OPTIONS")
	authed.HandleFunc("/system-settings", settingsHandler.Update).Methods("PUT", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
