package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"formdesk/internal/model"
)

// TokenService issues and verifies the access/refresh token pair. Both are
// stateless HMAC JWTs; expiry is the only invalidation mechanism.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess creates a short-lived access token carrying the role and
// module permissions needed to build a principal without a DB round-trip.
func (s *TokenService) IssueAccess(user *model.User) (string, error) {
	claims := &model.AccessClaims{
		UserID:            user.ID,
		Role:              user.Role,
		ModulePermissions: user.ModulePermissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   "access",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// IssueRefresh creates a long-lived refresh token carrying only the user id;
// role/permission changes take effect on the next refresh.
func (s *TokenService) IssueRefresh(userID string) (string, error) {
	claims := &model.RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   "refresh",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.refreshTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyAccess validates an access token. Any signature mismatch, expiry or
// malformed payload fails closed with ErrInvalidToken.
func (s *TokenService) VerifyAccess(tokenString string) (*model.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.AccessClaims{}, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.AccessClaims)
	if !ok || !token.Valid || claims.UserID == "" || claims.Subject != "access" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token
func (s *TokenService) VerifyRefresh(tokenString string) (*model.RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.RefreshClaims{}, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.RefreshClaims)
	if !ok || !token.Valid || claims.UserID == "" || claims.Subject != "refresh" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	return s.secret, nil
}
