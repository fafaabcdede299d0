// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wealthvault/server/internal/models"
	"github.com/wealthvault/server/internal/testinfra"
)

func createTestGoal(t *testing.T, a *testAPI, title string, target float64) *models.Goal {
	t.Helper()

	status, env := a.do(http.MethodPost, "/api/v1/goals", models.CreateGoalRequest{
		Title:        title,
		TargetAmount: target,
	})
	require.Equal(t, http.StatusCreated, status)

	var goal models.Goal
	a.decodeData(env, &goal)
	return &goal
}

func TestGoalCRUD(t *testing.T) {
	a := newTestAPI(t)

	goal := createTestGoal(t, a, "House deposit", 50000)

	status, env := a.do(http.MethodGet, "/api/v1/goals/"+goal.ID, nil)
	require.Equal(t, http.StatusOK, status)

	newTitle := "Bigger house deposit"
	status, env = a.do(http.MethodPut, "/api/v1/goals/"+goal.ID, models.UpdateGoalRequest{
		Title: &newTitle,
	})
	require.Equal(t, http.StatusOK, status)
	var updated models.Goal
	a.decodeData(env, &updated)
	require.Equal(t, newTitle, updated.Title)

	status, _ = a.do(http.MethodDelete, "/api/v1/goals/"+goal.ID, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = a.do(http.MethodGet, "/api/v1/goals/"+goal.ID, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestGoalAllocationsReplaceSet(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")
	goal := createTestGoal(t, a, "Retirement", 100000)

	status, env := a.do(http.MethodPut, "/api/v1/goals/"+goal.ID+"/allocations", models.UpdateGoalAllocationsRequest{
		Allocations: []models.AllocationInput{
			{AccountID: account.ID, PercentAllocation: 60},
		},
	})
	require.Equal(t, http.StatusOK, status)

	var withAllocations models.Goal
	a.decodeData(env, &withAllocations)
	require.Len(t, withAllocations.Allocations, 1)
	require.Equal(t, 60, withAllocations.Allocations[0].PercentAllocation)

	// Replacing with a smaller percentage keeps exactly one row.
	status, env = a.do(http.MethodPut, "/api/v1/goals/"+goal.ID+"/allocations", models.UpdateGoalAllocationsRequest{
		Allocations: []models.AllocationInput{
			{AccountID: account.ID, PercentAllocation: 40},
		},
	})
	require.Equal(t, http.StatusOK, status)
	a.decodeData(env, &withAllocations)
	require.Len(t, withAllocations.Allocations, 1)
	require.Equal(t, 40, withAllocations.Allocations[0].PercentAllocation)
}

func TestGoalAllocationsEnforceAccountCap(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")
	first := createTestGoal(t, a, "First", 1000)
	second := createTestGoal(t, a, "Second", 2000)

	status, _ := a.do(http.MethodPut, "/api/v1/goals/"+first.ID+"/allocations", models.UpdateGoalAllocationsRequest{
		Allocations: []models.AllocationInput{
			{AccountID: account.ID, PercentAllocation: 70},
		},
	})
	require.Equal(t, http.StatusOK, status)

	// 70 + 40 would exceed the account's 100% cap.
	status, env := a.do(http.MethodPut, "/api/v1/goals/"+second.ID+"/allocations", models.UpdateGoalAllocationsRequest{
		Allocations: []models.AllocationInput{
			{AccountID: account.ID, PercentAllocation: 40},
		},
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, ErrCodeAllocationBounds, env.Error.Code)

	// 30 fits exactly.
	status, _ = a.do(http.MethodPut, "/api/v1/goals/"+second.ID+"/allocations", models.UpdateGoalAllocationsRequest{
		Allocations: []models.AllocationInput{
			{AccountID: account.ID, PercentAllocation: 30},
		},
	})
	require.Equal(t, http.StatusOK, status)
}

func TestGoalAllocationsRejectForeignAccount(t *testing.T) {
	a := newTestAPI(t)
	other := testinfra.CreateTestUser(t, a.db, "other@example.com")
	theirs := testinfra.CreateTestAccount(t, a.db, other.ID, "Theirs")
	goal := createTestGoal(t, a, "Goal", 1000)

	status, _ := a.do(http.MethodPut, "/api/v1/goals/"+goal.ID+"/allocations", models.UpdateGoalAllocationsRequest{
		Allocations: []models.AllocationInput{
			{AccountID: theirs.ID, PercentAllocation: 10},
		},
	})
	require.Equal(t, http.StatusNotFound, status)
}

func TestGoalProgressFromHoldings(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")
	goal := createTestGoal(t, a, "Emergency fund", 5000)

	status, _ := a.do(http.MethodPost, "/api/v1/activities", models.CreateActivityRequest{
		AccountID:    account.ID,
		ActivityType: models.ActivityDeposit,
		ActivityDate: "2026-01-02",
		Amount:       10000,
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = a.do(http.MethodPut, "/api/v1/goals/"+goal.ID+"/allocations", models.UpdateGoalAllocationsRequest{
		Allocations: []models.AllocationInput{
			{AccountID: account.ID, PercentAllocation: 50},
		},
	})
	require.Equal(t, http.StatusOK, status)

	status, env := a.do(http.MethodGet, "/api/v1/goals/"+goal.ID+"/progress", nil)
	require.Equal(t, http.StatusOK, status)

	var progress struct {
		AllocatedValue  float64 `json:"allocated_value"`
		ProgressPercent float64 `json:"progress_percent"`
	}
	a.decodeData(env, &progress)
	require.InDelta(t, 5000, progress.AllocatedValue, 0.01)
	require.InDelta(t, 100, progress.ProgressPercent, 0.01)
}

func TestGoalsSummaryListsAllGoals(t *testing.T) {
	a := newTestAPI(t)
	createTestGoal(t, a, "One", 100)
	createTestGoal(t, a, "Two", 200)

	status, env := a.do(http.MethodGet, "/api/v1/goals/summary", nil)
	require.Equal(t, http.StatusOK, status)

	var summary []struct {
		GoalID string `json:"goal_id"`
	}
	a.decodeData(env, &summary)
	require.Len(t, summary, 2)
}
