// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PortfolioSummary handles GET /api/v1/portfolio/summary. Accounts are
// valued live and rolled up into the user's base currency.
func (h *Handler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	summary, err := h.portfolio.Summarize(r.Context(), user.ID, h.baseCurrencyFor(r, user))
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute portfolio summary", err)
		return
	}

	respondData(w, http.StatusOK, summary)
}

// PortfolioHoldings handles GET /api/v1/portfolio/holdings.
func (h *Handler) PortfolioHoldings(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	holdings, err := h.portfolio.Holdings(r.Context(), user.ID, "")
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute holdings", err)
		return
	}

	respondData(w, http.StatusOK, holdings)
}

// PortfolioAccountHoldings handles GET /api/v1/portfolio/holdings/{accountId}.
func (h *Handler) PortfolioAccountHoldings(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	account := h.findUserAccount(w, r, user.ID, chi.URLParam(r, "accountId"))
	if account == nil {
		return
	}

	holdings, err := h.portfolio.Holdings(r.Context(), user.ID, account.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute holdings", err)
		return
	}

	respondData(w, http.StatusOK, holdings)
}

// PortfolioPerformance handles GET /api/v1/portfolio/performance with
// optional account_id, start_date and end_date parameters.
func (h *Handler) PortfolioPerformance(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	points, err := h.portfolio.Performance(r.Context(), user.ID,
		r.URL.Query().Get("account_id"),
		parseDateParam(r, "start_date"),
		parseDateParam(r, "end_date"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute performance", err)
		return
	}

	respondData(w, http.StatusOK, points)
}

// PortfolioIncome handles GET /api/v1/portfolio/income.
func (h *Handler) PortfolioIncome(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	report, err := h.portfolio.Income(r.Context(), user.ID,
		parseDateParam(r, "start_date"),
		parseDateParam(r, "end_date"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute income", err)
		return
	}

	respondData(w, http.StatusOK, report)
}

// PortfolioValuations handles GET /api/v1/portfolio/valuations.
func (h *Handler) PortfolioValuations(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	rows, err := h.portfolio.Valuations(r.Context(), user.ID,
		r.URL.Query().Get("account_id"),
		parseDateParam(r, "start_date"),
		parseDateParam(r, "end_date"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load valuations", err)
		return
	}

	respondData(w, http.StatusOK, rows)
}

// PortfolioRecalculate handles POST /api/v1/portfolio/recalculate. It
// recomputes today's valuation snapshot for every active account.
func (h *Handler) PortfolioRecalculate(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	processed, err := h.portfolio.Recalculate(r.Context(), user.ID, h.baseCurrencyFor(r, user))
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to recalculate valuations", err)
		return
	}

	respondData(w, http.StatusOK, map[string]int{"accounts_processed": processed})
}
