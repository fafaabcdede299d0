// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/logging"
	"github.com/wealthvault/server/internal/models"
)

// Machine-readable authentication error codes. Clients branch on these
// to decide between silent refresh, forced re-login and hard failure.
const (
	CodeAuthHeaderMissing       = "AUTH_HEADER_MISSING"
	CodeInvalidAuthFormat       = "INVALID_AUTH_FORMAT"
	CodeTokenMissing            = "TOKEN_MISSING"
	CodeTokenExpired            = "TOKEN_EXPIRED"
	CodeInvalidToken            = "INVALID_TOKEN"
	CodeTokenVerificationFailed = "TOKEN_VERIFICATION_FAILED"
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeUserInactive            = "USER_INACTIVE"
	CodeAuthFailed              = "AUTH_FAILED"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// UserFromContext returns the authenticated user stored by RequireAuth,
// or nil when the request was not authenticated.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// Middleware guards routes with JWT bearer authentication and resolves
// the token subject to a live user row on every request, so deactivated
// users lose access before their access token expires.
type Middleware struct {
	jwt *JWTManager
	db  *gorm.DB
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(jwt *JWTManager, db *gorm.DB) *Middleware {
	return &Middleware{jwt: jwt, db: db}
}

// RequireAuth rejects requests without a valid bearer token. On success
// the request context carries the *models.User for handlers.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, code, message := m.authenticate(r)
		if user == nil {
			writeAuthError(w, code, message)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

// OptionalAuth attaches the user to the context when a valid bearer
// token is present and passes the request through unauthenticated
// otherwise. Malformed or expired tokens are ignored, not rejected.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, _, _ := m.authenticate(r); user != nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate extracts and validates the bearer token and loads the
// user. It returns (nil, code, message) on failure.
func (m *Middleware) authenticate(r *http.Request) (*models.User, string, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, CodeAuthHeaderMissing, "Authorization header is required"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, CodeInvalidAuthFormat, "Authorization header must use the Bearer scheme"
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return nil, CodeTokenMissing, "Bearer token is empty"
	}

	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, CodeTokenExpired, "Access token has expired"
		}
		return nil, CodeInvalidToken, "Access token is invalid"
	}

	var user models.User
	err = m.db.WithContext(r.Context()).First(&user, "id = ?", claims.Subject).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodeUserNotFound, "User no longer exists"
		}
		logging.Error().Err(err).Msg("Failed to load user during authentication")
		return nil, CodeTokenVerificationFailed, "Failed to verify token"
	}

	if !user.IsActive {
		return nil, CodeUserInactive, "User account is deactivated"
	}

	return &user, "", ""
}

// writeAuthError emits the standard error envelope with 401 status. The
// auth package cannot import the api package, so it encodes the envelope
// itself.
func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	resp := models.APIResponse{
		Success: false,
		Error:   &models.APIError{Code: code, Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error response")
	}
}
