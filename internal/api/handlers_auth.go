// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/auth"
	"github.com/wealthvault/server/internal/logging"
	"github.com/wealthvault/server/internal/metrics"
	"github.com/wealthvault/server/internal/models"
)

// tokenPair is the payload returned by register, login and refresh.
type tokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *models.User `json:"user"`
}

// issueTokens creates an access token and a refresh session for a user.
func (h *Handler) issueTokens(r *http.Request, user *models.User) (*tokenPair, error) {
	accessToken, err := h.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := h.sessions.Create(r.Context(), user.ID, r.UserAgent(), clientIP(r))
	if err != nil {
		return nil, err
	}

	return &tokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(h.cfg.Security.AccessTokenTTL.Seconds()),
		User:         user,
	}, nil
}

// clientIP extracts the caller's IP, trusting X-Forwarded-For when set
// by the reverse proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.SplitN(fwd, ",", 2)
		return strings.TrimSpace(parts[0])
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}

// Register handles POST /api/v1/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	err := h.db.WithContext(r.Context()).Where("email = ?", email).First(&existing).Error
	if err == nil {
		metrics.RecordAuthAttempt("register", false)
		respondError(w, http.StatusConflict, ErrCodeEmailTaken, "An account with this email already exists", nil)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create user", err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create user", err)
		return
	}

	baseCurrency := req.BaseCurrency
	if baseCurrency == "" {
		baseCurrency = "USD"
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		BaseCurrency: baseCurrency,
		IsActive:     true,
	}

	err = h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		settings := &models.UserSettings{
			UserID:       user.ID,
			BaseCurrency: baseCurrency,
		}
		return tx.Create(settings).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create user", err)
		return
	}

	tokens, err := h.issueTokens(r, user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to issue tokens", err)
		return
	}

	metrics.RecordAuthAttempt("register", true)
	logging.Info().Str("user_id", user.ID).Msg("User registered")
	respondData(w, http.StatusCreated, tokens)
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := h.db.WithContext(r.Context()).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordAuthAttempt("login", false)
			respondError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid email or password", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to log in", err)
		return
	}

	if !user.IsActive {
		metrics.RecordAuthAttempt("login", false)
		respondError(w, http.StatusUnauthorized, auth.CodeUserInactive, "User account is deactivated", nil)
		return
	}

	if auth.CheckPassword(user.PasswordHash, req.Password) != nil {
		metrics.RecordAuthAttempt("login", false)
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid email or password", nil)
		return
	}

	now := time.Now()
	if err := h.db.WithContext(r.Context()).Model(&user).Update("last_login_at", now).Error; err != nil {
		logging.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to record last login")
	}
	user.LastLoginAt = &now

	tokens, err := h.issueTokens(r, &user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to issue tokens", err)
		return
	}

	metrics.RecordAuthAttempt("login", true)
	logging.Info().Str("user_id", user.ID).Msg("User logged in")
	respondData(w, http.StatusOK, tokens)
}

// Refresh handles POST /api/v1/auth/refresh. The presented refresh token
// is rotated; the old token stops working immediately.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	newRefresh, session, err := h.sessions.Rotate(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrSessionNotFound) {
			metrics.RecordAuthAttempt("refresh", false)
			respondError(w, http.StatusUnauthorized, ErrCodeInvalidRefresh, "Refresh token is invalid or expired", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to refresh session", err)
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).First(&user, "id = ?", session.UserID).Error; err != nil {
		respondError(w, http.StatusUnauthorized, ErrCodeInvalidRefresh, "Refresh token is invalid or expired", err)
		return
	}
	if !user.IsActive {
		respondError(w, http.StatusUnauthorized, auth.CodeUserInactive, "User account is deactivated", nil)
		return
	}

	accessToken, err := h.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to issue tokens", err)
		return
	}

	metrics.RecordAuthAttempt("refresh", true)
	respondData(w, http.StatusOK, &tokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresIn:    int64(h.cfg.Security.AccessTokenTTL.Seconds()),
		User:         &user,
	})
}

// Logout handles POST /api/v1/auth/logout. With a refresh token in the
// body it ends that session; without one it ends every session of the
// authenticated user.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var req models.LogoutRequest
	// An empty body is a valid "log out everywhere" request.
	_ = decodeOptional(r, &req)

	if req.RefreshToken != "" {
		if err := h.sessions.Revoke(r.Context(), req.RefreshToken); err != nil {
			if errors.Is(err, auth.ErrSessionNotFound) {
				respondError(w, http.StatusUnauthorized, ErrCodeInvalidRefresh, "Refresh token is invalid or expired", nil)
				return
			}
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to log out", err)
			return
		}
	} else {
		if err := h.sessions.RevokeAll(r.Context(), user.ID); err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to log out", err)
			return
		}
	}

	respondMessage(w, http.StatusOK, "Logged out")
}

// Me handles GET /api/v1/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	respondData(w, http.StatusOK, user)
}
