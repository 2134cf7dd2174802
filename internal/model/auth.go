package model

import "github.com/golang-jwt/jwt/v5"

// AccessClaims are JWT claims for the short-lived access token
type AccessClaims struct {
	UserID            string            `json:"userId"`
	Role              Role              `json:"role"`
	ModulePermissions ModulePermissions `json:"modulePermissions"`
	jwt.RegisteredClaims
}

// RefreshClaims are JWT claims for the long-lived refresh token
type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login. Tokens also travel as
// httpOnly cookies; the body copy is for non-browser clients.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}
