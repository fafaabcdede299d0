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

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wealthvault/server/internal/logging"
	"github.com/wealthvault/server/internal/metrics"
	"github.com/wealthvault/server/internal/models"
)

// MarketDataProviders handles GET /api/v1/market-data/providers.
func (h *Handler) MarketDataProviders(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}
	respondData(w, http.StatusOK, models.MarketDataProviders)
}

// SearchMarketData handles GET /api/v1/market-data/search?q=. It
// searches the local asset catalog by symbol and name.
func (h *Handler) SearchMarketData(w http.ResponseWriter, r *http.Request) {
	h.SearchAssets(w, r)
}

// SyncQuotes handles POST /api/v1/market-data/sync. Quotes are upserted
// on (symbol, timestamp, data_source), so re-syncing a window is
// idempotent.
func (h *Handler) SyncQuotes(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var req models.SyncQuotesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	start := time.Now()
	upserted := 0

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		for i := range req.Quotes {
			in := &req.Quotes[i]

			ts, err := parseActivityDate(in.Timestamp)
			if err != nil {
				return err
			}

			quote := models.Quote{
				Symbol:        strings.ToUpper(strings.TrimSpace(in.Symbol)),
				Timestamp:     ts,
				OpenPrice:     decimal.NewFromFloat(in.OpenPrice),
				HighPrice:     decimal.NewFromFloat(in.HighPrice),
				LowPrice:      decimal.NewFromFloat(in.LowPrice),
				ClosePrice:    decimal.NewFromFloat(in.ClosePrice),
				AdjClosePrice: decimal.NewFromFloat(in.AdjClosePrice),
				Volume:        in.Volume,
				Currency:      in.Currency,
				DataSource:    in.DataSource,
			}
			if quote.Currency == "" {
				quote.Currency = "USD"
			}
			if quote.DataSource == "" {
				quote.DataSource = "MANUAL"
			}

			err = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "symbol"}, {Name: "timestamp"}, {Name: "data_source"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"open_price", "high_price", "low_price", "close_price",
					"adj_close_price", "volume", "currency",
				}),
			}).Create(&quote).Error
			if err != nil {
				return err
			}
			upserted++
		}
		return nil
	})

	metrics.RecordQuoteSync("MANUAL", time.Since(start), upserted, err)

	if err != nil {
		if strings.HasPrefix(err.Error(), "invalid date") {
			respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to sync quotes", err)
		return
	}

	logging.Info().Str("user_id", user.ID).Int("quotes", upserted).Msg("Quotes synced")
	respondData(w, http.StatusOK, map[string]int{"synced": upserted})
}

// LatestQuotes handles GET /api/v1/market-data/quotes/latest?symbols=A,B.
// Each symbol maps to its most recent quote; unknown symbols are omitted.
func (h *Handler) LatestQuotes(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	symbols := parseCommaSeparated(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Query parameter symbols is required", nil)
		return
	}

	latest := make(map[string]*models.Quote, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(symbol)

		var quote models.Quote
		err := h.db.WithContext(r.Context()).
			Where("symbol = ?", symbol).
			Order("timestamp DESC").
			First(&quote).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load quotes", err)
			return
		}
		latest[symbol] = &quote
	}

	respondData(w, http.StatusOK, latest)
}

// HistoricalQuotes handles GET /api/v1/market-data/quotes/historical
// with symbols, start_date and end_date parameters.
func (h *Handler) HistoricalQuotes(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	symbols := parseCommaSeparated(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Query parameter symbols is required", nil)
		return
	}
	for i := range symbols {
		symbols[i] = strings.ToUpper(symbols[i])
	}

	q := h.db.WithContext(r.Context()).Where("symbol IN ?", symbols)
	if from := parseDateParam(r, "start_date"); from != nil {
		q = q.Where("timestamp >= ?", *from)
	}
	if to := parseDateParam(r, "end_date"); to != nil {
		q = q.Where("timestamp <= ?", *to)
	}

	var quotes []models.Quote
	if err := q.Order("symbol ASC, timestamp ASC").Find(&quotes).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load quotes", err)
		return
	}

	respondData(w, http.StatusOK, quotes)
}

// QuoteHistory handles GET /api/v1/market-data/quotes/{symbol}/history.
func (h *Handler) QuoteHistory(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	q := h.db.WithContext(r.Context()).Where("symbol = ?", symbol)
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

// UpdateQuote handles PUT /api/v1/market-data/quotes/{id}.
func (h *Handler) UpdateQuote(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	var quote models.Quote
	err := h.db.WithContext(r.Context()).First(&quote, "id = ?", chi.URLParam(r, "id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Quote not found", nil)
		} else {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load quote", err)
		}
		return
	}

	var req models.UpdateQuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.OpenPrice != nil {
		quote.OpenPrice = decimal.NewFromFloat(*req.OpenPrice)
	}
	if req.HighPrice != nil {
		quote.HighPrice = decimal.NewFromFloat(*req.HighPrice)
	}
	if req.LowPrice != nil {
		quote.LowPrice = decimal.NewFromFloat(*req.LowPrice)
	}
	if req.ClosePrice != nil {
		quote.ClosePrice = decimal.NewFromFloat(*req.ClosePrice)
	}
	if req.AdjClosePrice != nil {
		quote.AdjClosePrice = decimal.NewFromFloat(*req.AdjClosePrice)
	}
	if req.Volume != nil {
		quote.Volume = *req.Volume
	}
	if req.Currency != nil {
		quote.Currency = *req.Currency
	}

	if err := h.db.WithContext(r.Context()).Save(&quote).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update quote", err)
		return
	}

	respondData(w, http.StatusOK, &quote)
}

// DeleteQuote handles DELETE /api/v1/market-data/quotes/{id}.
func (h *Handler) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	if currentUser(w, r) == nil {
		return
	}

	res := h.db.WithContext(r.Context()).Delete(&models.Quote{}, "id = ?", chi.URLParam(r, "id"))
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete quote", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Quote not found", nil)
		return
	}

	respondMessage(w, http.StatusOK, "Quote deleted")
}
