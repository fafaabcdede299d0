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

type tokenPairResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         *models.User `json:"user"`
}

func TestRegisterLoginRefreshLogout(t *testing.T) {
	a := newTestAPI(t)

	status, env := a.doAs(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Email:       "New.User@Example.com",
		Password:    "supersecret1",
		DisplayName: "New User",
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)

	var registered tokenPairResponse
	a.decodeData(env, &registered)
	require.NotEmpty(t, registered.AccessToken)
	require.NotEmpty(t, registered.RefreshToken)
	require.Equal(t, "new.user@example.com", registered.User.Email)

	// Registration creates a default settings row.
	var settings models.UserSettings
	require.NoError(t, a.db.Where("user_id = ?", registered.User.ID).First(&settings).Error)

	status, env = a.doAs(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Email:    "new.user@example.com",
		Password: "supersecret1",
	})
	require.Equal(t, http.StatusOK, status)
	var loggedIn tokenPairResponse
	a.decodeData(env, &loggedIn)

	status, env = a.doAs(http.MethodPost, "/api/v1/auth/refresh", "", models.RefreshRequest{
		RefreshToken: loggedIn.RefreshToken,
	})
	require.Equal(t, http.StatusOK, status)
	var refreshed tokenPairResponse
	a.decodeData(env, &refreshed)
	require.NotEqual(t, loggedIn.RefreshToken, refreshed.RefreshToken)

	// The rotated-out token is dead.
	status, env = a.doAs(http.MethodPost, "/api/v1/auth/refresh", "", models.RefreshRequest{
		RefreshToken: loggedIn.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, ErrCodeInvalidRefresh, env.Error.Code)

	status, _ = a.doAs(http.MethodPost, "/api/v1/auth/logout", refreshed.AccessToken, models.LogoutRequest{
		RefreshToken: refreshed.RefreshToken,
	})
	require.Equal(t, http.StatusOK, status)

	status, env = a.doAs(http.MethodPost, "/api/v1/auth/refresh", "", models.RefreshRequest{
		RefreshToken: refreshed.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, ErrCodeInvalidRefresh, env.Error.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := newTestAPI(t)

	status, env := a.doAs(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Email:    a.user.Email,
		Password: "supersecret1",
	})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, ErrCodeEmailTaken, env.Error.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name string
		req  models.LoginRequest
	}{
		{"wrong password", models.LoginRequest{Email: a.user.Email, Password: "not-the-password"}},
		{"unknown email", models.LoginRequest{Email: "ghost@example.com", Password: testinfra.TestPassword}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, env := a.doAs(http.MethodPost, "/api/v1/auth/login", "", tc.req)
			require.Equal(t, http.StatusUnauthorized, status)
			require.Equal(t, ErrCodeInvalidCredentials, env.Error.Code)
		})
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	a := newTestAPI(t)

	require.NoError(t, a.db.Model(&models.User{}).
		Where("id = ?", a.user.ID).
		Update("is_active", false).Error)

	status, env := a.doAs(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Email:    a.user.Email,
		Password: testinfra.TestPassword,
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.False(t, env.Success)
}

func TestMeReturnsAuthenticatedUser(t *testing.T) {
	a := newTestAPI(t)

	status, env := a.do(http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, status)

	var me models.User
	a.decodeData(env, &me)
	require.Equal(t, a.user.ID, me.ID)
	require.Equal(t, a.user.Email, me.Email)
}

func TestLogoutWithoutBodyRevokesAllSessions(t *testing.T) {
	a := newTestAPI(t)

	var tokens []string
	for i := 0; i < 2; i++ {
		status, env := a.doAs(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
			Email:    a.user.Email,
			Password: testinfra.TestPassword,
		})
		require.Equal(t, http.StatusOK, status)
		var pair tokenPairResponse
		a.decodeData(env, &pair)
		tokens = append(tokens, pair.RefreshToken)
	}

	status, _ := a.do(http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)

	for _, token := range tokens {
		status, _ := a.doAs(http.MethodPost, "/api/v1/auth/refresh", "", models.RefreshRequest{RefreshToken: token})
		require.Equal(t, http.StatusUnauthorized, status)
	}
}
