// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthvault/server/internal/auth"
	"github.com/wealthvault/server/internal/models"
	"github.com/wealthvault/server/internal/testinfra"
)

func TestSessionCreateAndRotate(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	store := auth.NewSessionStore(db, 7*24*time.Hour)

	token, session, err := store.Create(context.Background(), user.ID, "test-agent", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, user.ID, session.UserID)
	assert.NotContains(t, session.TokenHash, token)

	newToken, rotated, err := store.Rotate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, rotated.ID)
	assert.NotEqual(t, token, newToken)

	// The old token must stop working after rotation.
	_, _, err = store.Rotate(context.Background(), token)
	require.ErrorIs(t, err, auth.ErrSessionNotFound)

	_, _, err = store.Rotate(context.Background(), newToken)
	require.NoError(t, err)
}

func TestSessionRotateRejectsExpired(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	store := auth.NewSessionStore(db, -time.Hour)

	token, _, err := store.Create(context.Background(), user.ID, "", "")
	require.NoError(t, err)

	_, _, err = store.Rotate(context.Background(), token)
	require.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestSessionRevoke(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	store := auth.NewSessionStore(db, 7*24*time.Hour)

	token, _, err := store.Create(context.Background(), user.ID, "", "")
	require.NoError(t, err)

	require.NoError(t, store.Revoke(context.Background(), token))
	require.ErrorIs(t, store.Revoke(context.Background(), token), auth.ErrSessionNotFound)
}

func TestSessionRevokeAll(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	store := auth.NewSessionStore(db, 7*24*time.Hour)

	for i := 0; i < 3; i++ {
		_, _, err := store.Create(context.Background(), user.ID, "", "")
		require.NoError(t, err)
	}

	require.NoError(t, store.RevokeAll(context.Background(), user.ID))

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPruneExpired(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")

	live := auth.NewSessionStore(db, time.Hour)
	stale := auth.NewSessionStore(db, -time.Hour)

	_, _, err := live.Create(context.Background(), user.ID, "", "")
	require.NoError(t, err)
	_, _, err = stale.Create(context.Background(), user.ID, "", "")
	require.NoError(t, err)

	pruned, err := live.PruneExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
