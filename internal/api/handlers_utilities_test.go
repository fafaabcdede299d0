// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wealthvault/server/internal/models"
	"github.com/wealthvault/server/internal/testinfra"
)

func seedPortfolioData(t *testing.T, a *testAPI) *models.Account {
	t.Helper()

	account := testinfra.CreateTestAccount(t, a.db, a.user.ID, "Brokerage")
	for _, req := range []models.CreateActivityRequest{
		{AccountID: account.ID, ActivityType: models.ActivityDeposit, ActivityDate: "2026-01-10", Amount: 10000},
		{AccountID: account.ID, Symbol: "VTI", ActivityType: models.ActivityBuy, ActivityDate: "2026-01-11", Quantity: 10, UnitPrice: 250, Fee: 5},
	} {
		status, _ := a.do(http.MethodPost, "/api/v1/activities", req)
		require.Equal(t, http.StatusCreated, status)
	}
	return account
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	a := newTestAPI(t)
	seedPortfolioData(t, a)
	createTestGoal(t, a, "Goal", 1000)

	status, env := a.do(http.MethodPost, "/api/v1/utilities/backup", nil)
	require.Equal(t, http.StatusOK, status)

	var doc models.BackupDocument
	a.decodeData(env, &doc)
	require.Equal(t, models.BackupVersion, doc.Version)
	require.Len(t, doc.Accounts, 1)
	require.Len(t, doc.Activities, 2)
	require.Len(t, doc.Goals, 1)
	require.Len(t, doc.Assets, 2)

	// Wipe through restore of an empty document, then restore the backup.
	status, _ = a.do(http.MethodPost, "/api/v1/utilities/restore", models.BackupDocument{Version: models.BackupVersion})
	require.Equal(t, http.StatusOK, status)

	var count int64
	require.NoError(t, a.db.Model(&models.Activity{}).Where("user_id = ?", a.user.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)

	status, _ = a.do(http.MethodPost, "/api/v1/utilities/restore", doc)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, a.db.Model(&models.Activity{}).Where("user_id = ?", a.user.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)
	require.NoError(t, a.db.Model(&models.Account{}).Where("user_id = ?", a.user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
	require.NoError(t, a.db.Model(&models.Goal{}).Where("user_id = ?", a.user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRestoreRejectsUnknownVersion(t *testing.T) {
	a := newTestAPI(t)

	status, env := a.do(http.MethodPost, "/api/v1/utilities/restore", models.BackupDocument{Version: 99})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, ErrCodeRestoreVersion, env.Error.Code)
}

func TestExportActivitiesCSV(t *testing.T) {
	a := newTestAPI(t)
	seedPortfolioData(t, a)

	req, err := http.NewRequest(http.MethodGet, a.server.URL+"/api/v1/utilities/export", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+a.token)

	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	require.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, strings.Join(exportColumns, ","), lines[0])
	require.Contains(t, string(body), "VTI")
	require.Contains(t, string(body), "DEPOSIT")
}

func TestStatsCountsUserData(t *testing.T) {
	a := newTestAPI(t)
	seedPortfolioData(t, a)

	status, env := a.do(http.MethodGet, "/api/v1/utilities/stats", nil)
	require.Equal(t, http.StatusOK, status)

	var counts map[string]int64
	a.decodeData(env, &counts)
	require.EqualValues(t, 1, counts["accounts"])
	require.EqualValues(t, 2, counts["activities"])
	require.EqualValues(t, 2, counts["assets_referenced"])
}
