// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/models"
)

// findAsset loads an asset by ID or writes 404.
func (h *Handler) findAsset(w http.ResponseWriter, r *http.Request, assetID string) *models.Asset {
	var asset models.Asset
	err := h.db.WithContext(r.Context()).First(&asset, "id = ?", assetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Asset not found", nil)
		} else {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load asset", err)
		}
		return nil
	}
	return &asset
}

// ListAssets handles GET /api/v1/assets with pagination and filters for
// asset_type and data_source.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	page, perPage, offset := h.pageParams(r)

	q := h.db.WithContext(r.Context()).Model(&models.Asset{})
	if assetType := r.URL.Query().Get("asset_type"); assetType != "" {
		q = q.Where("asset_type = ?", assetType)
	}
	if dataSource := r.URL.Query().Get("data_source"); dataSource != "" {
		q = q.Where("data_source = ?", dataSource)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load assets", err)
		return
	}

	var assets []models.Asset
	if err := q.Order("symbol ASC").Limit(perPage).Offset(offset).Find(&assets).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load assets", err)
		return
	}

	respondPage(w, assets, models.NewPagination(page, perPage, total))
}

// GetAsset handles GET /api/v1/assets/{id}.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	asset := h.findAsset(w, r, chi.URLParam(r, "id"))
	if asset == nil {
		return
	}

	respondData(w, http.StatusOK, asset)
}

// SearchAssets handles GET /api/v1/assets/search?q=. Symbol, name and
// ISIN are matched case-insensitively.
func (h *Handler) SearchAssets(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Query parameter q is required", nil)
		return
	}

	pattern := "%" + strings.ToUpper(query) + "%"
	limit := getIntParam(r, "limit", 20)
	if limit < 1 || limit > h.cfg.API.MaxPageSize {
		limit = 20
	}

	var assets []models.Asset
	err := h.db.WithContext(r.Context()).
		Where("UPPER(symbol) LIKE ? OR UPPER(name) LIKE ? OR UPPER(isin) LIKE ?", pattern, pattern, pattern).
		Order("symbol ASC").
		Limit(limit).
		Find(&assets).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to search assets", err)
		return
	}

	respondData(w, http.StatusOK, assets)
}

// AssetTypes handles GET /api/v1/assets/types. Returns distinct types
// present in the asset catalog.
func (h *Handler) AssetTypes(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	var types []string
	err := h.db.WithContext(r.Context()).
		Model(&models.Asset{}).
		Distinct("asset_type").
		Order("asset_type ASC").
		Pluck("asset_type", &types).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load asset types", err)
		return
	}

	respondData(w, http.StatusOK, types)
}

// AssetDataSources handles GET /api/v1/assets/data-sources.
func (h *Handler) AssetDataSources(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	var sources []string
	err := h.db.WithContext(r.Context()).
		Model(&models.Asset{}).
		Distinct("data_source").
		Order("data_source ASC").
		Pluck("data_source", &sources).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load data sources", err)
		return
	}

	respondData(w, http.StatusOK, sources)
}

// UpdateAsset handles PUT /api/v1/assets/{id}.
func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	asset := h.findAsset(w, r, chi.URLParam(r, "id"))
	if asset == nil {
		return
	}

	var req models.UpdateAssetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.AssetType != nil {
		asset.AssetType = *req.AssetType
	}
	if req.AssetClass != nil {
		asset.AssetClass = *req.AssetClass
	}
	if req.AssetSubClass != nil {
		asset.AssetSubClass = *req.AssetSubClass
	}
	if req.SymbolMapping != nil {
		asset.SymbolMapping = *req.SymbolMapping
	}
	if req.ISIN != nil {
		asset.ISIN = *req.ISIN
	}
	if req.Currency != nil {
		asset.Currency = *req.Currency
	}
	if req.Countries != nil {
		asset.Countries = *req.Countries
	}
	if req.Sectors != nil {
		asset.Sectors = *req.Sectors
	}
	if req.Categories != nil {
		asset.Categories = *req.Categories
	}
	if req.Classes != nil {
		asset.Classes = *req.Classes
	}
	if req.Attributes != nil {
		asset.Attributes = *req.Attributes
	}
	if req.Notes != nil {
		asset.Notes = *req.Notes
	}
	if req.URL != nil {
		asset.URL = *req.URL
	}

	if err := h.db.WithContext(r.Context()).Save(asset).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update asset", err)
		return
	}

	respondData(w, http.StatusOK, asset)
}

// UpdateAssetDataSource handles PUT /api/v1/assets/{id}/data-source.
func (h *Handler) UpdateAssetDataSource(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	asset := h.findAsset(w, r, chi.URLParam(r, "id"))
	if asset == nil {
		return
	}

	var req models.UpdateAssetDataSourceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	asset.DataSource = req.DataSource
	if err := h.db.WithContext(r.Context()).Save(asset).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update asset", err)
		return
	}

	respondData(w, http.StatusOK, asset)
}

// AssetHistory handles GET /api/v1/assets/{id}/history. Returns the
// stored quote series for the asset's symbol, oldest first.
func (h *Handler) AssetHistory(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	asset := h.findAsset(w, r, chi.URLParam(r, "id"))
	if asset == nil {
		return
	}

	q := h.db.WithContext(r.Context()).Where("symbol = ?", asset.Symbol)
	if from := parseDateParam(r, "start_date"); from != nil {
		q = q.Where("timestamp >= ?", *from)
	}
	if to := parseDateParam(r, "end_date"); to != nil {
		q = q.Where("timestamp <= ?", *to)
	}

	var quotes []models.Quote
	if err := q.Order("timestamp ASC").Find(&quotes).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load quote history", err)
		return
	}

	respondData(w, http.StatusOK, quotes)
}

// AssetActivities handles GET /api/v1/assets/{id}/activities. Only the
// caller's own activities are returned.
func (h *Handler) AssetActivities(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	asset := h.findAsset(w, r, chi.URLParam(r, "id"))
	if asset == nil {
		return
	}

	var activities []models.Activity
	err := h.db.WithContext(r.Context()).
		Where("user_id = ? AND asset_id = ?", user.ID, asset.ID).
		Order("activity_date DESC").
		Find(&activities).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load activities", err)
		return
	}

	respondData(w, http.StatusOK, activities)
}
