// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/auth"
	"github.com/wealthvault/server/internal/config"
	"github.com/wealthvault/server/internal/models"
	"github.com/wealthvault/server/internal/portfolio"
)

// Version is the application version, set at build time via ldflags.
var Version = "dev"

// Handler carries the dependencies shared by all endpoint handlers.
type Handler struct {
	db        *gorm.DB
	cfg       *config.Config
	jwt       *auth.JWTManager
	sessions  *auth.SessionStore
	portfolio *portfolio.Service
	startTime time.Time
}

// NewHandler creates the API handler set.
func NewHandler(db *gorm.DB, cfg *config.Config, jwtManager *auth.JWTManager, sessions *auth.SessionStore) *Handler {
	return &Handler{
		db:        db,
		cfg:       cfg,
		jwt:       jwtManager,
		sessions:  sessions,
		portfolio: portfolio.NewService(db),
		startTime: time.Now(),
	}
}

// currentUser returns the authenticated user or writes a 401. Routes
// behind RequireAuth always have one; the guard covers miswiring.
func currentUser(w http.ResponseWriter, r *http.Request) *models.User {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, auth.CodeAuthFailed, "Authentication required", nil)
	}
	return user
}

// baseCurrencyFor resolves the user's base currency, preferring their
// settings row over the user record.
func (h *Handler) baseCurrencyFor(r *http.Request, user *models.User) string {
	var settings models.UserSettings
	err := h.db.WithContext(r.Context()).Where("user_id = ?", user.ID).First(&settings).Error
	if err == nil && settings.BaseCurrency != "" {
		return settings.BaseCurrency
	}
	if user.BaseCurrency != "" {
		return user.BaseCurrency
	}
	return "USD"
}
