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
	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/models"
)

// findUserAccount loads an account owned by the user or writes 404.
func (h *Handler) findUserAccount(w http.ResponseWriter, r *http.Request, userID, accountID string) *models.Account {
	var account models.Account
	err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", accountID, userID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Account not found", nil)
		} else {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load account", err)
		}
		return nil
	}
	return &account
}

// ListAccounts handles GET /api/v1/accounts. The is_active filter
// accepts true/false; by default all accounts are returned.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	q := h.db.WithContext(r.Context()).Where("user_id = ?", user.ID)
	switch r.URL.Query().Get("is_active") {
	case "true":
		q = q.Where("is_active = ?", true)
	case "false":
		q = q.Where("is_active = ?", false)
	}
	if accountType := r.URL.Query().Get("account_type"); accountType != "" {
		q = q.Where("account_type = ?", accountType)
	}

	var accounts []models.Account
	if err := q.Order("name ASC").Find(&accounts).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load accounts", err)
		return
	}

	respondData(w, http.StatusOK, accounts)
}

// GetAccount handles GET /api/v1/accounts/{id}.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	account := h.findUserAccount(w, r, user.ID, chi.URLParam(r, "id"))
	if account == nil {
		return
	}

	respondData(w, http.StatusOK, account)
}

// CreateAccount handles POST /api/v1/accounts. Marking the new account
// as default clears the flag on every other account of the user.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var req models.CreateAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account := &models.Account{
		UserID:      user.ID,
		Name:        req.Name,
		AccountType: req.AccountType,
		GroupName:   req.GroupName,
		Currency:    req.Currency,
		PlatformID:  req.PlatformID,
		IsDefault:   req.IsDefault,
		IsActive:    true,
	}
	if account.AccountType == "" {
		account.AccountType = "SECURITIES"
	}
	if account.Currency == "" {
		account.Currency = h.baseCurrencyFor(r, user)
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if account.IsDefault {
			if err := tx.Model(&models.Account{}).
				Where("user_id = ?", user.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(account).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create account", err)
		return
	}

	respondData(w, http.StatusCreated, account)
}

// UpdateAccount handles PUT /api/v1/accounts/{id}.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	account := h.findUserAccount(w, r, user.ID, chi.URLParam(r, "id"))
	if account == nil {
		return
	}

	var req models.UpdateAccountRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.AccountType != nil {
		account.AccountType = *req.AccountType
	}
	if req.GroupName != nil {
		account.GroupName = *req.GroupName
	}
	if req.Currency != nil {
		account.Currency = *req.Currency
	}
	if req.PlatformID != nil {
		account.PlatformID = req.PlatformID
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.IsDefault != nil {
		account.IsDefault = *req.IsDefault
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault {
			if err := tx.Model(&models.Account{}).
				Where("user_id = ? AND id <> ?", user.ID, account.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(account).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update account", err)
		return
	}

	respondData(w, http.StatusOK, account)
}

// DeleteAccount handles DELETE /api/v1/accounts/{id}. Accounts with
// recorded activities cannot be deleted; deactivate them instead.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	account := h.findUserAccount(w, r, user.ID, chi.URLParam(r, "id"))
	if account == nil {
		return
	}

	var count int64
	err := h.db.WithContext(r.Context()).
		Model(&models.Activity{}).
		Where("account_id = ?", account.ID).
		Count(&count).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete account", err)
		return
	}
	if count > 0 {
		respondError(w, http.StatusBadRequest, ErrCodeAccountActivities,
			"Account has recorded activities; deactivate it instead of deleting", nil)
		return
	}

	if err := h.db.WithContext(r.Context()).Delete(account).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete account", err)
		return
	}

	respondMessage(w, http.StatusOK, "Account deleted")
}

// accountSummaryItem pairs an account with its activity count and the
// latest recorded valuation.
type accountSummaryItem struct {
	Account       *models.Account `json:"account"`
	ActivityCount int64           `json:"activity_count"`
	TotalValue    float64         `json:"total_value"`
	ValuationDate *time.Time      `json:"valuation_date,omitempty"`
}

// AccountsSummary handles GET /api/v1/accounts/summary. Counts come from
// recorded activities; values from the latest daily valuations.
func (h *Handler) AccountsSummary(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var accounts []models.Account
	err := h.db.WithContext(r.Context()).
		Where("user_id = ?", user.ID).
		Order("name ASC").
		Find(&accounts).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load accounts", err)
		return
	}

	items := make([]accountSummaryItem, 0, len(accounts))
	for i := range accounts {
		account := &accounts[i]
		item := accountSummaryItem{Account: account}

		err := h.db.WithContext(r.Context()).
			Model(&models.Activity{}).
			Where("account_id = ? AND is_draft = ?", account.ID, false).
			Count(&item.ActivityCount).Error
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load account summary", err)
			return
		}

		var valuation models.DailyAccountValuation
		err = h.db.WithContext(r.Context()).
			Where("account_id = ?", account.ID).
			Order("valuation_date DESC").
			First(&valuation).Error
		if err == nil {
			item.TotalValue = valuation.TotalValue.InexactFloat64()
			item.ValuationDate = &valuation.ValuationDate
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load account summary", err)
			return
		}

		items = append(items, item)
	}

	respondData(w, http.StatusOK, items)
}
