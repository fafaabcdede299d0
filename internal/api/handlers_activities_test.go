// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wealthvault/server/internal/models"
	"github.com/wealthvault/server/internal/testinfra"
)

func TestCreateBuyActivityWithSymbolCreatesAsset(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")

	status, env := a.do(http.MethodPost, "/api/v1/activities", models.CreateActivityRequest{
		AccountID:    account.ID,
		Symbol:       "VWRL",
		ActivityType: models.ActivityBuy,
		ActivityDate: "2026-03-02",
		Quantity:     10,
		UnitPrice:    105.5,
		Fee:          2,
	})
	require.Equal(t, http.StatusCreated, status)

	var created models.Activity
	a.decodeData(env, &created)
	require.NotEmpty(t, created.AssetID)
	require.Equal(t, models.ActivityBuy, created.ActivityType)

	var asset models.Asset
	require.NoError(t, a.db.First(&asset, "id = ?", created.AssetID).Error)
	require.Equal(t, "VWRL", asset.Symbol)
	require.Equal(t, "MANUAL", asset.DataSource)
}

func TestCreateDepositUsesCashAsset(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")

	status, env := a.do(http.MethodPost, "/api/v1/activities", models.CreateActivityRequest{
		AccountID:    account.ID,
		ActivityType: models.ActivityDeposit,
		ActivityDate: "2026-01-15",
		Amount:       5000,
	})
	require.Equal(t, http.StatusCreated, status)

	var created models.Activity
	a.decodeData(env, &created)

	var asset models.Asset
	require.NoError(t, a.db.First(&asset, "id = ?", created.AssetID).Error)
	require.Equal(t, models.CashSymbol("USD"), asset.Symbol)
	require.Equal(t, models.AssetTypeCash, asset.AssetType)
}

func TestCreateBuyWithoutSymbolRejected(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")

	status, env := a.do(http.MethodPost, "/api/v1/activities", models.CreateActivityRequest{
		AccountID:    account.ID,
		ActivityType: models.ActivityBuy,
		ActivityDate: "2026-01-15",
		Quantity:     1,
		UnitPrice:    100,
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)
}

func TestCreateActivityInvalidDateRejected(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")

	status, env := a.do(http.MethodPost, "/api/v1/activities", models.CreateActivityRequest{
		AccountID:    account.ID,
		Symbol:       "VWRL",
		ActivityType: models.ActivityBuy,
		ActivityDate: "15/01/2026",
		Quantity:     1,
		UnitPrice:    100,
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, ErrCodeValidation, env.Error.Code)
}

func TestCreateActivityOnForeignAccountRejected(t *testing.T) {
	a := newTestAPI(t)
	other := testinfra.CreateTestUser(t, a.db, "other@example.com")
	theirs := testinfra.CreateTestAccount(t, a.db, other.ID, "Theirs")

	status, _ := a.do(http.MethodPost, "/api/v1/activities", models.CreateActivityRequest{
		AccountID:    theirs.ID,
		ActivityType: models.ActivityDeposit,
		ActivityDate: "2026-01-15",
		Amount:       100,
	})
	require.Equal(t, http.StatusNotFound, status)
}

func TestListActivitiesFilters(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")

	for _, req := range []models.CreateActivityRequest{
		{AccountID: account.ID, ActivityType: models.ActivityDeposit, ActivityDate: "2026-01-10", Amount: 1000},
		{AccountID: account.ID, Symbol: "VTI", ActivityType: models.ActivityBuy, ActivityDate: "2026-02-10", Quantity: 2, UnitPrice: 200},
		{AccountID: account.ID, Symbol: "VTI", ActivityType: models.ActivityDividend, ActivityDate: "2026-03-10", Amount: 12},
	} {
		status, _ := a.do(http.MethodPost, "/api/v1/activities", req)
		require.Equal(t, http.StatusCreated, status)
	}

	status, env := a.do(http.MethodGet, "/api/v1/activities", nil)
	require.Equal(t, http.StatusOK, status)
	var activities []models.Activity
	a.decodeData(env, &activities)
	require.Len(t, activities, 3)
	require.NotNil(t, env.Pagination)
	require.EqualValues(t, 3, env.Pagination.Total)

	status, env = a.do(http.MethodGet, "/api/v1/activities?activity_type=BUY,DIVIDEND", nil)
	require.Equal(t, http.StatusOK, status)
	a.decodeData(env, &activities)
	require.Len(t, activities, 2)

	status, env = a.do(http.MethodGet, "/api/v1/activities?start_date=2026-02-01&end_date=2026-02-28", nil)
	require.Equal(t, http.StatusOK, status)
	a.decodeData(env, &activities)
	require.Len(t, activities, 1)
	require.Equal(t, models.ActivityBuy, activities[0].ActivityType)
}

func TestUpdateAndDeleteActivity(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")

	status, env := a.do(http.MethodPost, "/api/v1/activities", models.CreateActivityRequest{
		AccountID:    account.ID,
		Symbol:       "VTI",
		ActivityType: models.ActivityBuy,
		ActivityDate: "2026-02-10",
		Quantity:     2,
		UnitPrice:    200,
	})
	require.Equal(t, http.StatusCreated, status)
	var created models.Activity
	a.decodeData(env, &created)

	newQty := 3.0
	status, env = a.do(http.MethodPut, "/api/v1/activities/"+created.ID, models.UpdateActivityRequest{
		Quantity: &newQty,
	})
	require.Equal(t, http.StatusOK, status)
	var updated models.Activity
	a.decodeData(env, &updated)
	require.True(t, updated.Quantity.Equal(decimal.NewFromInt(3)))
	require.True(t, updated.UnitPrice.Equal(created.UnitPrice))

	status, _ = a.do(http.MethodDelete, "/api/v1/activities/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = a.do(http.MethodGet, "/api/v1/activities/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestImportActivitiesAllOrNothing(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")

	status, env := a.do(http.MethodPost, "/api/v1/activities/import", models.BulkImportRequest{
		Activities: []models.CreateActivityRequest{
			{AccountID: account.ID, ActivityType: models.ActivityDeposit, ActivityDate: "2026-01-10", Amount: 1000},
			{AccountID: account.ID, Symbol: "VTI", ActivityType: models.ActivityBuy, ActivityDate: "not-a-date", Quantity: 1, UnitPrice: 100},
		},
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, env.Success)

	// Nothing was inserted.
	var count int64
	require.NoError(t, a.db.Model(&models.Activity{}).Where("user_id = ?", a.user.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestImportActivitiesSuccess(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")

	status, env := a.do(http.MethodPost, "/api/v1/activities/import", models.BulkImportRequest{
		Activities: []models.CreateActivityRequest{
			{AccountID: account.ID, ActivityType: models.ActivityDeposit, ActivityDate: "2026-01-10", Amount: 1000},
			{AccountID: account.ID, Symbol: "VTI", ActivityType: models.ActivityBuy, ActivityDate: "2026-01-11", Quantity: 2, UnitPrice: 100},
		},
	})
	require.Equal(t, http.StatusCreated, status)

	var result struct {
		Imported int `json:"imported"`
		Rejected int `json:"rejected"`
	}
	a.decodeData(env, &result)
	require.Equal(t, 2, result.Imported)
	require.Equal(t, 0, result.Rejected)

	var count int64
	require.NoError(t, a.db.Model(&models.Activity{}).Where("user_id = ?", a.user.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestActivityTypesListsUsedTypes(t *testing.T) {
	a := newTestAPI(t)
	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")

	status, _ := a.do(http.MethodPost, "/api/v1/activities", models.CreateActivityRequest{
		AccountID:    account.ID,
		ActivityType: models.ActivityDeposit,
		ActivityDate: "2026-01-10",
		Amount:       500,
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := a.do(http.MethodGet, "/api/v1/activities/types", nil)
	require.Equal(t, http.StatusOK, status)
	var types []string
	a.decodeData(env, &types)
	require.Contains(t, types, models.ActivityDeposit)
}
