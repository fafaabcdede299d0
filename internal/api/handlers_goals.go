// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/models"
)

// findUserGoal loads a goal owned by the user, with allocations, or
// writes 404.
func (h *Handler) findUserGoal(w http.ResponseWriter, r *http.Request, userID, goalID string) *models.Goal {
	var goal models.Goal
	err := h.db.WithContext(r.Context()).
		Preload("Allocations").
		Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Goal not found", nil)
		} else {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load goal", err)
		}
		return nil
	}
	return &goal
}

// ListGoals handles GET /api/v1/goals.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var goals []models.Goal
	err := h.db.WithContext(r.Context()).
		Preload("Allocations").
		Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Find(&goals).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load goals", err)
		return
	}

	respondData(w, http.StatusOK, goals)
}

// GetGoal handles GET /api/v1/goals/{id}.
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	goal := h.findUserGoal(w, r, user.ID, chi.URLParam(r, "id"))
	if goal == nil {
		return
	}

	respondData(w, http.StatusOK, goal)
}

// CreateGoal handles POST /api/v1/goals.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var req models.CreateGoalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	goal := &models.Goal{
		UserID:       user.ID,
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: decimal.NewFromFloat(req.TargetAmount),
		IsAchieved:   req.IsAchieved,
	}

	if err := h.db.WithContext(r.Context()).Create(goal).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create goal", err)
		return
	}

	respondData(w, http.StatusCreated, goal)
}

// UpdateGoal handles PUT /api/v1/goals/{id}.
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	goal := h.findUserGoal(w, r, user.ID, chi.URLParam(r, "id"))
	if goal == nil {
		return
	}

	var req models.UpdateGoalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.TargetAmount != nil {
		goal.TargetAmount = decimal.NewFromFloat(*req.TargetAmount)
	}
	if req.IsAchieved != nil {
		goal.IsAchieved = *req.IsAchieved
	}

	if err := h.db.WithContext(r.Context()).Save(goal).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update goal", err)
		return
	}

	respondData(w, http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/v1/goals/{id}. Allocations are removed
// with the goal.
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	goal := h.findUserGoal(w, r, user.ID, chi.URLParam(r, "id"))
	if goal == nil {
		return
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.GoalAllocation{}, "goal_id = ?", goal.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Goal{}, "id = ?", goal.ID).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete goal", err)
		return
	}

	respondMessage(w, http.StatusOK, "Goal deleted")
}

// goalProgress is the computed progress of one goal.
type goalProgress struct {
	GoalID          string  `json:"goal_id"`
	Title           string  `json:"title"`
	TargetAmount    float64 `json:"target_amount"`
	AllocatedValue  float64 `json:"allocated_value"`
	ProgressPercent float64 `json:"progress_percent"`
	IsAchieved      bool    `json:"is_achieved"`
}

// computeGoalProgress values a goal's allocations against the current
// account valuations. Each allocation contributes its percentage of the
// account's total value.
func (h *Handler) computeGoalProgress(r *http.Request, user *models.User, goal *models.Goal) (*goalProgress, error) {
	summary, err := h.portfolio.Summarize(r.Context(), user.ID, h.baseCurrencyFor(r, user))
	if err != nil {
		return nil, err
	}

	valueByAccount := make(map[string]decimal.Decimal, len(summary.Accounts))
	for i := range summary.Accounts {
		valueByAccount[summary.Accounts[i].AccountID] = decimal.NewFromFloat(summary.Accounts[i].TotalValueBase)
	}

	allocated := decimal.Zero
	for i := range goal.Allocations {
		alloc := &goal.Allocations[i]
		if value, ok := valueByAccount[alloc.AccountID]; ok {
			allocated = allocated.Add(value.Mul(decimal.NewFromInt(int64(alloc.PercentAllocation))).Div(decimal.NewFromInt(100)))
		}
	}

	progress := &goalProgress{
		GoalID:         goal.ID,
		Title:          goal.Title,
		TargetAmount:   goal.TargetAmount.InexactFloat64(),
		AllocatedValue: allocated.InexactFloat64(),
		IsAchieved:     goal.IsAchieved,
	}
	if goal.TargetAmount.IsPositive() {
		progress.ProgressPercent = allocated.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return progress, nil
}

// GoalProgress handles GET /api/v1/goals/{id}/progress.
func (h *Handler) GoalProgress(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	goal := h.findUserGoal(w, r, user.ID, chi.URLParam(r, "id"))
	if goal == nil {
		return
	}

	progress, err := h.computeGoalProgress(r, user, goal)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute goal progress", err)
		return
	}

	respondData(w, http.StatusOK, progress)
}

// GoalsSummary handles GET /api/v1/goals/summary. Returns progress for
// every goal of the user.
func (h *Handler) GoalsSummary(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var goals []models.Goal
	err := h.db.WithContext(r.Context()).
		Preload("Allocations").
		Where("user_id = ?", user.ID).
		Order("created_at ASC").
		Find(&goals).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load goals", err)
		return
	}

	results := make([]goalProgress, 0, len(goals))
	for i := range goals {
		progress, err := h.computeGoalProgress(r, user, &goals[i])
		if err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute goal progress", err)
			return
		}
		results = append(results, *progress)
	}

	respondData(w, http.StatusOK, results)
}

// UpdateGoalAllocations handles PUT /api/v1/goals/{id}/allocations. The
// request replaces the goal's allocation set. For every account the
// combined allocation across all goals must stay at or below 100%.
func (h *Handler) UpdateGoalAllocations(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	goal := h.findUserGoal(w, r, user.ID, chi.URLParam(r, "id"))
	if goal == nil {
		return
	}

	var req models.UpdateGoalAllocationsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Reject duplicate accounts within the request.
	seen := make(map[string]bool, len(req.Allocations))
	for i := range req.Allocations {
		if seen[req.Allocations[i].AccountID] {
			respondError(w, http.StatusBadRequest, ErrCodeValidation,
				"Duplicate account in allocations", nil)
			return
		}
		seen[req.Allocations[i].AccountID] = true
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		for i := range req.Allocations {
			in := &req.Allocations[i]

			var account models.Account
			if err := tx.Where("id = ? AND user_id = ?", in.AccountID, user.ID).First(&account).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: account %s", errAllocationAccount, in.AccountID)
				}
				return err
			}

			// Sum this account's allocation across the user's other goals.
			var others int64
			err := tx.Model(&models.GoalAllocation{}).
				Select("COALESCE(SUM(percent_allocation), 0)").
				Where("account_id = ? AND goal_id <> ?", in.AccountID, goal.ID).
				Scan(&others).Error
			if err != nil {
				return err
			}
			if others+int64(in.PercentAllocation) > 100 {
				return fmt.Errorf("%w: account %s would be allocated %d%%",
					errAllocationBounds, in.AccountID, others+int64(in.PercentAllocation))
			}
		}

		if err := tx.Delete(&models.GoalAllocation{}, "goal_id = ?", goal.ID).Error; err != nil {
			return err
		}
		for i := range req.Allocations {
			alloc := models.GoalAllocation{
				GoalID:            goal.ID,
				AccountID:         req.Allocations[i].AccountID,
				PercentAllocation: req.Allocations[i].PercentAllocation,
			}
			if err := tx.Create(&alloc).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errAllocationAccount):
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "Account not found", nil)
		case errors.Is(err, errAllocationBounds):
			respondError(w, http.StatusBadRequest, ErrCodeAllocationBounds, err.Error(), nil)
		default:
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update allocations", err)
		}
		return
	}

	updated := h.findUserGoal(w, r, user.ID, goal.ID)
	if updated == nil {
		return
	}
	respondData(w, http.StatusOK, updated)
}

var (
	errAllocationAccount = errors.New("allocation account not found")
	errAllocationBounds  = errors.New("allocation exceeds 100%")
)
