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
)

func TestGetSettingsCreatesDefaults(t *testing.T) {
	a := newTestAPI(t)

	status, env := a.do(http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, status)

	var settings models.UserSettings
	a.decodeData(env, &settings)
	require.Equal(t, a.user.ID, settings.UserID)
	require.Equal(t, "system", settings.Theme)
	require.Equal(t, "USD", settings.BaseCurrency)
	require.Equal(t, "YYYY-MM-DD", settings.DateFormat)
}

func TestUpdateSettingsPartial(t *testing.T) {
	a := newTestAPI(t)

	theme := "dark"
	currency := "EUR"
	status, env := a.do(http.MethodPut, "/api/v1/settings", models.UpdateSettingsRequest{
		Theme:        &theme,
		BaseCurrency: &currency,
	})
	require.Equal(t, http.StatusOK, status)

	var settings models.UserSettings
	a.decodeData(env, &settings)
	require.Equal(t, "dark", settings.Theme)
	require.Equal(t, "EUR", settings.BaseCurrency)
	require.Equal(t, "UTC", settings.Timezone)

	// Base currency change propagates to the user record.
	var user models.User
	require.NoError(t, a.db.First(&user, "id = ?", a.user.ID).Error)
	require.Equal(t, "EUR", user.BaseCurrency)
}

func TestUpdateSettingsRejectsUnknownTheme(t *testing.T) {
	a := newTestAPI(t)

	theme := "solarized"
	status, env := a.do(http.MethodPut, "/api/v1/settings", models.UpdateSettingsRequest{
		Theme: &theme,
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, ErrCodeValidation, env.Error.Code)
}

func TestSettingsEnumerations(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		path string
		min  int
	}{
		{"/api/v1/settings/currencies", 5},
		{"/api/v1/settings/themes", 3},
		{"/api/v1/settings/date-formats", 5},
		{"/api/v1/settings/number-formats", 4},
	}
	for _, tc := range tests {
		status, env := a.do(http.MethodGet, tc.path, nil)
		require.Equal(t, http.StatusOK, status, tc.path)

		var items []map[string]interface{}
		a.decodeData(env, &items)
		require.GreaterOrEqual(t, len(items), tc.min, tc.path)
	}
}

func TestExchangeRateUpsertAndDelete(t *testing.T) {
	a := newTestAPI(t)

	status, env := a.do(http.MethodPost, "/api/v1/settings/exchange-rates", models.ExchangeRateRequest{
		FromCurrency: "EUR",
		ToCurrency:   "USD",
		Rate:         1.08,
		Timestamp:    "2026-08-01",
	})
	require.Equal(t, http.StatusCreated, status)
	var created models.ExchangeRate
	a.decodeData(env, &created)
	require.InDelta(t, 1.08, created.Rate.InexactFloat64(), 0.0001)

	// Same pair and day replaces the rate instead of adding a row.
	status, _ = a.do(http.MethodPost, "/api/v1/settings/exchange-rates", models.ExchangeRateRequest{
		FromCurrency: "EUR",
		ToCurrency:   "USD",
		Rate:         1.10,
		Timestamp:    "2026-08-01",
	})
	require.Equal(t, http.StatusCreated, status)

	var count int64
	require.NoError(t, a.db.Model(&models.ExchangeRate{}).
		Where("from_currency = ? AND to_currency = ?", "EUR", "USD").
		Count(&count).Error)
	require.EqualValues(t, 1, count)

	var stored models.ExchangeRate
	require.NoError(t, a.db.First(&stored, "from_currency = ?", "EUR").Error)
	require.InDelta(t, 1.10, stored.Rate.InexactFloat64(), 0.0001)

	status, env = a.do(http.MethodGet, "/api/v1/settings/exchange-rates?from=EUR", nil)
	require.Equal(t, http.StatusOK, status)
	var rates []models.ExchangeRate
	a.decodeData(env, &rates)
	require.Len(t, rates, 1)

	status, _ = a.do(http.MethodDelete, "/api/v1/settings/exchange-rates/"+stored.ID, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = a.do(http.MethodDelete, "/api/v1/settings/exchange-rates/"+stored.ID, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestExchangeRateUpdateByID(t *testing.T) {
	a := newTestAPI(t)

	status, env := a.do(http.MethodPost, "/api/v1/settings/exchange-rates", models.ExchangeRateRequest{
		FromCurrency: "GBP",
		ToCurrency:   "USD",
		Rate:         1.27,
		Timestamp:    "2026-08-01",
	})
	require.Equal(t, http.StatusCreated, status)
	var created models.ExchangeRate
	a.decodeData(env, &created)

	status, env = a.do(http.MethodPut, "/api/v1/settings/exchange-rates/"+created.ID, models.UpdateExchangeRateRequest{
		Rate: 1.31,
	})
	require.Equal(t, http.StatusOK, status)
	var updated models.ExchangeRate
	a.decodeData(env, &updated)
	require.Equal(t, created.ID, updated.ID)
	require.InDelta(t, 1.31, updated.Rate.InexactFloat64(), 0.0001)

	status, _ = a.do(http.MethodPut, "/api/v1/settings/exchange-rates/missing", models.UpdateExchangeRateRequest{
		Rate: 1.0,
	})
	require.Equal(t, http.StatusNotFound, status)
}
