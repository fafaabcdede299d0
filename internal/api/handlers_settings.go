// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wealthvault/server/internal/models"
)

// loadSettings returns the user's settings row, creating the default row
// on first read.
func (h *Handler) loadSettings(r *http.Request, userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := h.db.WithContext(r.Context()).
		Where("user_id = ?", userID).
		First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.UserSettings{
			UserID:       userID,
			Theme:        "system",
			FontFamily:   "Inter",
			BaseCurrency: "USD",
			DateFormat:   "YYYY-MM-DD",
			NumberFormat: "US",
			Timezone:     "UTC",
		}
		err = h.db.WithContext(r.Context()).Create(&settings).Error
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetSettings handles GET /api/v1/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	settings, err := h.loadSettings(r, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load settings", err)
		return
	}

	respondData(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/v1/settings with partial updates.
// Changing the base currency also updates the user record so portfolio
// summaries pick the new currency up immediately.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var req models.UpdateSettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	settings, err := h.loadSettings(r, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load settings", err)
		return
	}

	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.FontFamily != nil {
		settings.FontFamily = *req.FontFamily
	}
	if req.BaseCurrency != nil {
		settings.BaseCurrency = *req.BaseCurrency
	}
	if req.PrivacyMode != nil {
		settings.PrivacyMode = *req.PrivacyMode
	}
	if req.DateFormat != nil {
		settings.DateFormat = *req.DateFormat
	}
	if req.NumberFormat != nil {
		settings.NumberFormat = *req.NumberFormat
	}
	if req.Timezone != nil {
		settings.Timezone = *req.Timezone
	}
	if req.OnboardingCompleted != nil {
		settings.OnboardingCompleted = *req.OnboardingCompleted
	}

	err = h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(settings).Error; err != nil {
			return err
		}
		if req.BaseCurrency != nil {
			return tx.Model(&models.User{}).
				Where("id = ?", user.ID).
				Update("base_currency", *req.BaseCurrency).Error
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update settings", err)
		return
	}

	respondData(w, http.StatusOK, settings)
}

// ListCurrencies handles GET /api/v1/settings/currencies.
func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, models.SupportedCurrencies)
}

// ListThemes handles GET /api/v1/settings/themes.
func (h *Handler) ListThemes(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, models.SupportedThemes)
}

// ListDateFormats handles GET /api/v1/settings/date-formats.
func (h *Handler) ListDateFormats(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, models.SupportedDateFormats)
}

// ListNumberFormats handles GET /api/v1/settings/number-formats.
func (h *Handler) ListNumberFormats(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, models.SupportedNumberFormats)
}

// ListExchangeRates handles GET /api/v1/settings/exchange-rates with
// optional from/to currency filters.
func (h *Handler) ListExchangeRates(w http.ResponseWriter, r *http.Request) {
	if user := currentUser(w, r); user == nil {
		return
	}

	q := h.db.WithContext(r.Context()).Model(&models.ExchangeRate{})
	if from := r.URL.Query().Get("from"); from != "" {
		q = q.Where("from_currency = ?", from)
	}
	if to := r.URL.Query().Get("to"); to != "" {
		q = q.Where("to_currency = ?", to)
	}

	var rates []models.ExchangeRate
	if err := q.Order("from_currency ASC, to_currency ASC, timestamp DESC").Find(&rates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load exchange rates", err)
		return
	}

	respondData(w, http.StatusOK, rates)
}

// UpsertExchangeRate handles POST /api/v1/settings/exchange-rates.
// Posting the same pair and timestamp again replaces the stored rate.
func (h *Handler) UpsertExchangeRate(w http.ResponseWriter, r *http.Request) {
	if user := currentUser(w, r); user == nil {
		return
	}

	var req models.ExchangeRateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ts := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Timestamp != "" {
		parsed, err := parseActivityDate(req.Timestamp)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
			return
		}
		ts = parsed
	}

	rate := models.ExchangeRate{
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		Rate:         decimal.NewFromFloat(req.Rate),
		Timestamp:    ts,
		DataSource:   "MANUAL",
	}

	err := h.db.WithContext(r.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_currency"}, {Name: "to_currency"}, {Name: "timestamp"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate", "data_source"}),
		}).
		Create(&rate).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to save exchange rate", err)
		return
	}

	respondData(w, http.StatusCreated, rate)
}

// UpdateExchangeRate handles PUT /api/v1/settings/exchange-rates/{id}.
func (h *Handler) UpdateExchangeRate(w http.ResponseWriter, r *http.Request) {
	if user := currentUser(w, r); user == nil {
		return
	}

	var req models.UpdateExchangeRateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var rate models.ExchangeRate
	err := h.db.WithContext(r.Context()).
		Where("id = ?", chi.URLParam(r, "id")).
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Exchange rate not found", nil)
		} else {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load exchange rate", err)
		}
		return
	}

	rate.Rate = decimal.NewFromFloat(req.Rate)
	rate.DataSource = "MANUAL"
	if req.DataSource != "" {
		rate.DataSource = req.DataSource
	}

	if err := h.db.WithContext(r.Context()).Save(&rate).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update exchange rate", err)
		return
	}

	respondData(w, http.StatusOK, rate)
}

// DeleteExchangeRate handles DELETE /api/v1/settings/exchange-rates/{id}.
func (h *Handler) DeleteExchangeRate(w http.ResponseWriter, r *http.Request) {
	if user := currentUser(w, r); user == nil {
		return
	}

	res := h.db.WithContext(r.Context()).
		Where("id = ?", chi.URLParam(r, "id")).
		Delete(&models.ExchangeRate{})
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete exchange rate", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Exchange rate not found", nil)
		return
	}

	respondMessage(w, http.StatusOK, "Exchange rate deleted")
}
