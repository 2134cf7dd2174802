package middleware

import (
	"context"
	"net/http"
	"strings"

	"formdesk/internal/authz"
	"formdesk/internal/service"
)

type contextKey string

const principalKey contextKey = "principal"

// AuthMiddleware builds a principal from the access token. Tokens arrive in
// the httpOnly access_token cookie or, for non-browser clients, a bearer
// header.
type AuthMiddleware struct {
	tokens *service.TokenService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens *service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid access token. The 401 response
// is what triggers the client's single silent refresh-and-retry.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := m.principalFrom(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid or expired token"}`))
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches a principal when a valid token is present and lets
// anonymous requests through untouched.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principal, ok := m.principalFrom(r); ok {
			r = r.WithContext(context.WithValue(r.Context(), principalKey, principal))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) principalFrom(r *http.Request) (authz.Principal, bool) {
	token := ExtractToken(r)
	if token == "" {
		return authz.Principal{}, false
	}

	claims, err := m.tokens.VerifyAccess(token)
	if err != nil {
		return authz.Principal{}, false
	}

	return authz.Principal{
		ID:            claims.UserID,
		Role:          claims.Role,
		Perms:         claims.ModulePermissions,
		Authenticated: true,
	}, true
}

// GetPrincipal extracts the principal from context; the zero value stands
// for an unauthenticated caller.
func GetPrincipal(ctx context.Context) authz.Principal {
	if v := ctx.Value(principalKey); v != nil {
		return v.(authz.Principal)
	}
	return authz.Principal{}
}

// ExtractToken pulls the access token from the cookie, the Authorization
// header, or (for WebSocket upgrades) the token query param, in that order.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie("access_token"); err == nil && c.Value != "" {
		return c.Value
	}

	auth := r.Header.Get("Authorization")
	if auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	return r.URL.Query().Get("token")
}
