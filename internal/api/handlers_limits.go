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
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/models"
)

// findUserLimit loads a contribution limit owned by the user or writes 404.
func (h *Handler) findUserLimit(w http.ResponseWriter, r *http.Request, userID, limitID string) *models.ContributionLimit {
	var limit models.ContributionLimit
	err := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", limitID, userID).
		First(&limit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Contribution limit not found", nil)
		} else {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load contribution limit", err)
		}
		return nil
	}
	return &limit
}

// limitAccountIDs decodes the JSON-encoded account ID list of a limit.
func limitAccountIDs(limit *models.ContributionLimit) []string {
	if limit.AccountIDs == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(limit.AccountIDs), &ids); err != nil {
		return nil
	}
	return ids
}

// limitWindow resolves the date window a limit counts deposits in:
// explicit start/end dates when set, the calendar year otherwise. The
// end is exclusive; an explicit end date counts deposits through the
// whole of that day.
func limitWindow(limit *models.ContributionLimit) (start, end time.Time) {
	start = time.Date(limit.ContributionYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(1, 0, 0)
	if limit.StartDate != nil {
		start = *limit.StartDate
	}
	if limit.EndDate != nil {
		end = limit.EndDate.AddDate(0, 0, 1)
	}
	return start, end
}

// limitDeposits loads the deposit-type activities counted against a limit.
func (h *Handler) limitDeposits(r *http.Request, userID string, limit *models.ContributionLimit) ([]models.Activity, error) {
	start, end := limitWindow(limit)

	q := h.db.WithContext(r.Context()).
		Where("user_id = ? AND is_draft = ?", userID, false).
		Where("activity_type IN ?", models.DepositActivityTypes).
		Where("activity_date >= ? AND activity_date < ?", start, end)
	if ids := limitAccountIDs(limit); len(ids) > 0 {
		q = q.Where("account_id IN ?", ids)
	}

	var activities []models.Activity
	if err := q.Order("activity_date ASC").Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// depositTotal sums the cash contributed by deposit activities. BUY rows
// contribute quantity times price; pure cash rows contribute amount.
func depositTotal(activities []models.Activity) decimal.Decimal {
	total := decimal.Zero
	for i := range activities {
		a := &activities[i]
		if a.ActivityType == models.ActivityBuy {
			total = total.Add(a.Quantity.Mul(a.UnitPrice))
		} else {
			total = total.Add(a.Amount)
		}
	}
	return total
}

// ListLimits handles GET /api/v1/limits with an optional year filter.
func (h *Handler) ListLimits(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	q := h.db.WithContext(r.Context()).Where("user_id = ?", user.ID)
	if year := getIntParam(r, "year", 0); year > 0 {
		q = q.Where("contribution_year = ?", year)
	}

	var limits []models.ContributionLimit
	if err := q.Order("contribution_year DESC, group_name ASC").Find(&limits).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load contribution limits", err)
		return
	}

	respondData(w, http.StatusOK, limits)
}

// GetLimit handles GET /api/v1/limits/{id}.
func (h *Handler) GetLimit(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	limit := h.findUserLimit(w, r, user.ID, chi.URLParam(r, "id"))
	if limit == nil {
		return
	}

	respondData(w, http.StatusOK, limit)
}

// buildLimit applies a create request to a new entity.
func buildLimit(userID string, req *models.CreateContributionLimitRequest) (*models.ContributionLimit, error) {
	limit := &models.ContributionLimit{
		UserID:           userID,
		GroupName:        req.GroupName,
		ContributionYear: req.ContributionYear,
		LimitAmount:      decimal.NewFromFloat(req.LimitAmount),
	}

	if len(req.AccountIDs) > 0 {
		encoded, err := json.Marshal(req.AccountIDs)
		if err != nil {
			return nil, err
		}
		limit.AccountIDs = string(encoded)
	}
	if req.StartDate != "" {
		t, err := parseActivityDate(req.StartDate)
		if err != nil {
			return nil, err
		}
		limit.StartDate = &t
	}
	if req.EndDate != "" {
		t, err := parseActivityDate(req.EndDate)
		if err != nil {
			return nil, err
		}
		limit.EndDate = &t
	}

	return limit, nil
}

// CreateLimit handles POST /api/v1/limits. The (group, year) pair is
// unique per user.
func (h *Handler) CreateLimit(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var req models.CreateContributionLimitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var existing models.ContributionLimit
	err := h.db.WithContext(r.Context()).
		Where("user_id = ? AND group_name = ? AND contribution_year = ?", user.ID, req.GroupName, req.ContributionYear).
		First(&existing).Error
	if err == nil {
		respondError(w, http.StatusConflict, ErrCodeConflict,
			"A contribution limit for this group and year already exists", nil)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create contribution limit", err)
		return
	}

	limit, err := buildLimit(user.ID, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	if err := h.db.WithContext(r.Context()).Create(limit).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create contribution limit", err)
		return
	}

	respondData(w, http.StatusCreated, limit)
}

// UpdateLimit handles PUT /api/v1/limits/{id}.
func (h *Handler) UpdateLimit(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	limit := h.findUserLimit(w, r, user.ID, chi.URLParam(r, "id"))
	if limit == nil {
		return
	}

	var req models.UpdateContributionLimitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.GroupName != nil {
		limit.GroupName = *req.GroupName
	}
	if req.ContributionYear != nil {
		limit.ContributionYear = *req.ContributionYear
	}
	if req.LimitAmount != nil {
		limit.LimitAmount = decimal.NewFromFloat(*req.LimitAmount)
	}
	if req.AccountIDs != nil {
		encoded, err := json.Marshal(*req.AccountIDs)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid account list", err)
			return
		}
		limit.AccountIDs = string(encoded)
	}
	if req.StartDate != nil {
		if *req.StartDate == "" {
			limit.StartDate = nil
		} else {
			t, err := parseActivityDate(*req.StartDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
				return
			}
			limit.StartDate = &t
		}
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			limit.EndDate = nil
		} else {
			t, err := parseActivityDate(*req.EndDate)
			if err != nil {
				respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
				return
			}
			limit.EndDate = &t
		}
	}

	if err := h.db.WithContext(r.Context()).Save(limit).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update contribution limit", err)
		return
	}

	respondData(w, http.StatusOK, limit)
}

// DeleteLimit handles DELETE /api/v1/limits/{id}.
func (h *Handler) DeleteLimit(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	res := h.db.WithContext(r.Context()).
		Where("id = ? AND user_id = ?", chi.URLParam(r, "id"), user.ID).
		Delete(&models.ContributionLimit{})
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete contribution limit", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Contribution limit not found", nil)
		return
	}

	respondMessage(w, http.StatusOK, "Contribution limit deleted")
}

// limitStatus is the progress of one contribution limit.
type limitStatus struct {
	Limit       *models.ContributionLimit `json:"limit"`
	Deposited   float64                   `json:"deposited"`
	Remaining   float64                   `json:"remaining"`
	UsedPercent float64                   `json:"used_percent"`
	OverLimit   bool                      `json:"over_limit"`
}

func (h *Handler) computeLimitStatus(r *http.Request, userID string, limit *models.ContributionLimit) (*limitStatus, error) {
	deposits, err := h.limitDeposits(r, userID, limit)
	if err != nil {
		return nil, err
	}

	deposited := depositTotal(deposits)
	remaining := limit.LimitAmount.Sub(deposited)

	status := &limitStatus{
		Limit:     limit,
		Deposited: deposited.InexactFloat64(),
		Remaining: remaining.InexactFloat64(),
		OverLimit: deposited.GreaterThan(limit.LimitAmount),
	}
	if limit.LimitAmount.IsPositive() {
		status.UsedPercent = deposited.Div(limit.LimitAmount).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return status, nil
}

// LimitsSummary handles GET /api/v1/limits/summary. Returns deposit
// progress against every limit, optionally for one year.
func (h *Handler) LimitsSummary(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	q := h.db.WithContext(r.Context()).Where("user_id = ?", user.ID)
	if year := getIntParam(r, "year", 0); year > 0 {
		q = q.Where("contribution_year = ?", year)
	}

	var limits []models.ContributionLimit
	if err := q.Order("contribution_year DESC, group_name ASC").Find(&limits).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load contribution limits", err)
		return
	}

	statuses := make([]limitStatus, 0, len(limits))
	for i := range limits {
		status, err := h.computeLimitStatus(r, user.ID, &limits[i])
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute limit progress", err)
			return
		}
		statuses = append(statuses, *status)
	}

	respondData(w, http.StatusOK, statuses)
}

// LimitDeposits handles GET /api/v1/limits/{id}/deposits. Lists the
// activities counted against the limit.
func (h *Handler) LimitDeposits(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	limit := h.findUserLimit(w, r, user.ID, chi.URLParam(r, "id"))
	if limit == nil {
		return
	}

	deposits, err := h.limitDeposits(r, user.ID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load deposits", err)
		return
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"activities": deposits,
		"total":      depositTotal(deposits).InexactFloat64(),
	})
}

// LimitGroups handles GET /api/v1/limits/groups. Returns the distinct
// group names across the user's limits.
func (h *Handler) LimitGroups(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var groups []string
	err := h.db.WithContext(r.Context()).
		Model(&models.ContributionLimit{}).
		Where("user_id = ?", user.ID).
		Distinct("group_name").
		Order("group_name ASC").
		Pluck("group_name", &groups).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load limit groups", err)
		return
	}

	respondData(w, http.StatusOK, groups)
}

// LimitGroupAccounts handles GET /api/v1/limits/groups/{group_name}/accounts.
// Returns the accounts linked to any limit in the group.
func (h *Handler) LimitGroupAccounts(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	groupName := chi.URLParam(r, "group_name")

	var limits []models.ContributionLimit
	err := h.db.WithContext(r.Context()).
		Where("user_id = ? AND group_name = ?", user.ID, groupName).
		Find(&limits).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load limit group", err)
		return
	}
	if len(limits) == 0 {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Limit group not found", nil)
		return
	}

	idSet := make(map[string]struct{})
	for i := range limits {
		for _, id := range limitAccountIDs(&limits[i]) {
			idSet[id] = struct{}{}
		}
	}

	accounts := []models.Account{}
	if len(idSet) > 0 {
		ids := make([]string, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}
		err = h.db.WithContext(r.Context()).
			Where("id IN ? AND user_id = ?", ids, user.ID).
			Order("name ASC").
			Find(&accounts).Error
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load accounts", err)
			return
		}
	}

	respondData(w, http.StatusOK, accounts)
}
