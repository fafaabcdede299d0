// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/logging"
	"github.com/wealthvault/server/internal/metrics"
	"github.com/wealthvault/server/internal/models"
)

// resolveActivityAsset resolves the asset for a new activity. Explicit
// asset IDs must exist. A symbol finds or creates a MANUAL asset. Cash
// activity types without an asset fall back to the synthetic $CASH
// asset for the activity currency.
func resolveActivityAsset(tx *gorm.DB, req *models.CreateActivityRequest, currency string) (*models.Asset, error) {
	if req.AssetID != "" {
		var asset models.Asset
		if err := tx.First(&asset, "id = ?", req.AssetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errAssetNotFound
			}
			return nil, err
		}
		return &asset, nil
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	assetType := "EQUITY"
	if symbol == "" {
		switch req.ActivityType {
		case models.ActivityBuy, models.ActivitySell, models.ActivityDividend, models.ActivitySplit:
			return nil, errAssetRequired
		}
		symbol = models.CashSymbol(currency)
		assetType = models.AssetTypeCash
	}

	var asset models.Asset
	err := tx.Where("symbol = ?", symbol).First(&asset).Error
	if err == nil {
		return &asset, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	asset = models.Asset{
		Symbol:     symbol,
		Name:       symbol,
		AssetType:  assetType,
		DataSource: "MANUAL",
		Currency:   currency,
	}
	if err := tx.Create(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

var (
	errAssetNotFound = errors.New("asset not found")
	errAssetRequired = errors.New("asset or symbol required")
)

// buildActivity converts a validated request into an entity. The caller
// has already verified account ownership.
func buildActivity(userID string, account *models.Account, asset *models.Asset, req *models.CreateActivityRequest) (*models.Activity, error) {
	date, err := parseActivityDate(req.ActivityDate)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = account.Currency
	}

	return &models.Activity{
		UserID:       userID,
		AccountID:    account.ID,
		AssetID:      asset.ID,
		ActivityType: req.ActivityType,
		ActivityDate: date,
		Quantity:     decimal.NewFromFloat(req.Quantity),
		UnitPrice:    decimal.NewFromFloat(req.UnitPrice),
		Fee:          decimal.NewFromFloat(req.Fee),
		Amount:       decimal.NewFromFloat(req.Amount),
		Currency:     currency,
		IsDraft:      req.IsDraft,
		Comment:      req.Comment,
		Description:  req.Description,
	}, nil
}

// ListActivities handles GET /api/v1/activities with pagination and
// filters for account, asset, type and date range.
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	page, perPage, offset := h.pageParams(r)

	q := h.db.WithContext(r.Context()).Model(&models.Activity{}).Where("user_id = ?", user.ID)
	if accountID := r.URL.Query().Get("account_id"); accountID != "" {
		q = q.Where("account_id = ?", accountID)
	}
	if assetID := r.URL.Query().Get("asset_id"); assetID != "" {
		q = q.Where("asset_id = ?", assetID)
	}
	if types := parseCommaSeparated(r.URL.Query().Get("activity_type")); len(types) > 0 {
		q = q.Where("activity_type IN ?", types)
	}
	if from := parseDateParam(r, "start_date"); from != nil {
		q = q.Where("activity_date >= ?", *from)
	}
	if to := parseDateParam(r, "end_date"); to != nil {
		q = q.Where("activity_date <= ?", *to)
	}
	switch r.URL.Query().Get("is_draft") {
	case "true":
		q = q.Where("is_draft = ?", true)
	case "false":
		q = q.Where("is_draft = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load activities", err)
		return
	}

	var activities []models.Activity
	err := q.Order("activity_date DESC, created_at DESC").
		Limit(perPage).Offset(offset).
		Find(&activities).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load activities", err)
		return
	}

	respondPage(w, activities, models.NewPagination(page, perPage, total))
}

// GetActivity handles GET /api/v1/activities/{id}.
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var activity models.Activity
	err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", chi.URLParam(r, "id"), user.ID).
		First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Activity not found", nil)
		} else {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load activity", err)
		}
		return
	}

	respondData(w, http.StatusOK, &activity)
}

// CreateActivity handles POST /api/v1/activities. The account must
// belong to the caller and any referenced asset must exist; both
// failures answer 404 without leaking other users' data.
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var req models.CreateActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	account := h.findUserAccount(w, r, user.ID, req.AccountID)
	if account == nil {
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = account.Currency
	}

	var activity *models.Activity
	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		asset, err := resolveActivityAsset(tx, &req, currency)
		if err != nil {
			return err
		}
		activity, err = buildActivity(user.ID, account, asset, &req)
		if err != nil {
			return err
		}
		return tx.Create(activity).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, errAssetNotFound):
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Asset not found", nil)
		case errors.Is(err, errAssetRequired):
			respondError(w, http.StatusBadRequest, ErrCodeValidation, "An asset_id or symbol is required for this activity type", nil)
		case strings.HasPrefix(err.Error(), "invalid date"):
			respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		default:
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create activity", err)
		}
		return
	}

	respondData(w, http.StatusCreated, activity)
}

// UpdateActivity handles PUT /api/v1/activities/{id}.
func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var activity models.Activity
	err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", chi.URLParam(r, "id"), user.ID).
		First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Activity not found", nil)
		} else {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load activity", err)
		}
		return
	}

	var req models.UpdateActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.AccountID != nil {
		account := h.findUserAccount(w, r, user.ID, *req.AccountID)
		if account == nil {
			return
		}
		activity.AccountID = account.ID
	}
	if req.AssetID != nil {
		var asset models.Asset
		if err := h.db.WithContext(r.Context()).First(&asset, "id = ?", *req.AssetID).Error; err != nil {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Asset not found", nil)
			return
		}
		activity.AssetID = asset.ID
	}
	if req.ActivityType != nil {
		activity.ActivityType = *req.ActivityType
	}
	if req.ActivityDate != nil {
		date, err := parseActivityDate(*req.ActivityDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
			return
		}
		activity.ActivityDate = date
	}
	if req.Quantity != nil {
		activity.Quantity = decimal.NewFromFloat(*req.Quantity)
	}
	if req.UnitPrice != nil {
		activity.UnitPrice = decimal.NewFromFloat(*req.UnitPrice)
	}
	if req.Fee != nil {
		activity.Fee = decimal.NewFromFloat(*req.Fee)
	}
	if req.Amount != nil {
		activity.Amount = decimal.NewFromFloat(*req.Amount)
	}
	if req.Currency != nil {
		activity.Currency = *req.Currency
	}
	if req.IsDraft != nil {
		activity.IsDraft = *req.IsDraft
	}
	if req.Comment != nil {
		activity.Comment = *req.Comment
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}

	if err := h.db.WithContext(r.Context()).Save(&activity).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update activity", err)
		return
	}

	respondData(w, http.StatusOK, &activity)
}

// DeleteActivity handles DELETE /api/v1/activities/{id}.
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	res := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", chi.URLParam(r, "id"), user.ID).
		Delete(&models.Activity{})
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete activity", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Activity not found", nil)
		return
	}

	respondMessage(w, http.StatusOK, "Activity deleted")
}

// ActivityTypes handles GET /api/v1/activities/types. It returns the
// distinct types present in the user's history, so client filters only
// offer values that will match something.
func (h *Handler) ActivityTypes(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var types []string
	err := h.db.WithContext(r.Context()).
		Model(&models.Activity{}).
		Where("user_id = ?", user.ID).
		Distinct("activity_type").
		Order("activity_type ASC").
		Pluck("activity_type", &types).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load activity types", err)
		return
	}

	respondData(w, http.StatusOK, types)
}

// importResult reports the outcome of a bulk import.
type importResult struct {
	Imported int      `json:"imported"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportActivities handles POST /api/v1/activities/import. Rows are
// checked individually; any rejection aborts the whole batch so a
// partial import never needs manual cleanup.
func (h *Handler) ImportActivities(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var req models.BulkImportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result := importResult{}
	accountCache := make(map[string]*models.Account)

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		for i := range req.Activities {
			row := &req.Activities[i]

			account, ok := accountCache[row.AccountID]
			if !ok {
				var acc models.Account
				err := tx.Where("id = ? AND user_id = ?", row.AccountID, user.ID).First(&acc).Error
				if err != nil {
					result.Rejected++
					result.Errors = append(result.Errors, fmt.Sprintf("row %d: account not found", i))
					continue
				}
				account = &acc
				accountCache[row.AccountID] = account
			}

			currency := row.Currency
			if currency == "" {
				currency = account.Currency
			}

			asset, err := resolveActivityAsset(tx, row, currency)
			if err != nil {
				result.Rejected++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i, err))
				continue
			}

			activity, err := buildActivity(user.ID, account, asset, row)
			if err != nil {
				result.Rejected++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i, err))
				continue
			}

			if err := tx.Create(activity).Error; err != nil {
				return err
			}
			result.Imported++
		}

		if result.Rejected > 0 {
			return errImportRejected
		}
		return nil
	})

	metrics.RecordImportBatch(len(req.Activities), result.Rejected)

	if errors.Is(err, errImportRejected) {
		result.Imported = 0
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Success: false,
			Data:    result,
			Error: &models.APIError{
				Code:    ErrCodeValidation,
				Message: "Import aborted; no rows were written",
			},
		})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to import activities", err)
		return
	}

	logging.Info().Str("user_id", user.ID).Int("imported", result.Imported).Msg("Activities imported")
	respondData(w, http.StatusCreated, result)
}

var errImportRejected = errors.New("import rejected")
