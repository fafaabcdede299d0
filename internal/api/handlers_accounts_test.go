// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wealthvault/server/internal/models"
	"github.com/wealthvault/server/internal/testinfra"
)

func TestAccountCRUD(t *testing.T) {
	a := newTestAPI(t)

	status, env := a.do(http.MethodPost, "/api/v1/accounts", models.CreateAccountRequest{
		Name:        "Brokerage",
		AccountType: "SECURITIES",
		Currency:    "EUR",
	})
	require.Equal(t, http.StatusCreated, status)

	var created models.Account
	a.decodeData(env, &created)
	require.Equal(t, "Brokerage", created.Name)
	require.Equal(t, "EUR", created.Currency)
	require.True(t, created.IsActive)

	status, env = a.do(http.MethodGet, "/api/v1/accounts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)

	newName := "Main Brokerage"
	status, env = a.do(http.MethodPut, "/api/v1/accounts/"+created.ID, models.UpdateAccountRequest{
		Name: &newName,
	})
	require.Equal(t, http.StatusOK, status)
	var updated models.Account
	a.decodeData(env, &updated)
	require.Equal(t, newName, updated.Name)
	require.Equal(t, "EUR", updated.Currency)

	status, _ = a.do(http.MethodDelete, "/api/v1/accounts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = a.do(http.MethodGet, "/api/v1/accounts/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, ErrCodeNotFound, env.Error.Code)
}

func TestAccountOwnershipIsolation(t *testing.T) {
	a := newTestAPI(t)

	other := testinfra.CreateTestUser(t, a.db, "other@example.com")
	theirs := testinfra.CreateTestAccount(t, a.db, other.ID, "Their Account")

	status, env := a.do(http.MethodGet, "/api/v1/accounts/"+theirs.ID, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, ErrCodeNotFound, env.Error.Code)

	status, _ = a.do(http.MethodDelete, "/api/v1/accounts/"+theirs.ID, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestDeleteAccountWithActivitiesRejected(t *testing.T) {
	a := newTestAPI(t)

	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Funded")
	asset := testinfra.CreateTestAsset(t, a.db, "VTI")
	require.NoError(t, a.db.Create(&models.Activity{
		UserID:       a.user.ID,
		AccountID:    account.ID,
		AssetID:      asset.ID,
		ActivityType: models.ActivityBuy,
		ActivityDate: time.Now().UTC(),
		Quantity:     decimal.NewFromInt(1),
		UnitPrice:    decimal.NewFromInt(100),
		Currency:     "USD",
	}).Error)

	status, env := a.do(http.MethodDelete, "/api/v1/accounts/"+account.ID, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, ErrCodeAccountActivities, env.Error.Code)

	// The account is untouched.
	var count int64
	require.NoError(t, a.db.Model(&models.Account{}).Where("id = ?", account.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSingleDefaultAccount(t *testing.T) {
	a := newTestAPI(t)

	status, env := a.do(http.MethodPost, "/api/v1/accounts", models.CreateAccountRequest{
		Name:      "First",
		IsDefault: true,
	})
	require.Equal(t, http.StatusCreated, status)
	var first models.Account
	a.decodeData(env, &first)

	status, env = a.do(http.MethodPost, "/api/v1/accounts", models.CreateAccountRequest{
		Name:      "Second",
		IsDefault: true,
	})
	require.Equal(t, http.StatusCreated, status)
	var second models.Account
	a.decodeData(env, &second)
	require.True(t, second.IsDefault)

	var reloaded models.Account
	require.NoError(t, a.db.First(&reloaded, "id = ?", first.ID).Error)
	require.False(t, reloaded.IsDefault)
}

func TestListAccountsFiltersInactive(t *testing.T) {
	a := newTestAPI(t)

	active := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Active")
	inactive := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Closed")
	require.NoError(t, a.db.Model(&models.Account{}).
		Where("id = ?", inactive.ID).
		Update("is_active", false).Error)

	status, env := a.do(http.MethodGet, "/api/v1/accounts?is_active=true", nil)
	require.Equal(t, http.StatusOK, status)
	var accounts []models.Account
	a.decodeData(env, &accounts)
	require.Len(t, accounts, 1)
	require.Equal(t, active.ID, accounts[0].ID)

	status, env = a.do(http.MethodGet, "/api/v1/accounts", nil)
	require.Equal(t, http.StatusOK, status)
	a.decodeData(env, &accounts)
	require.Len(t, accounts, 2)
}
