// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse battery staple"))
	assert.Error(t, CheckPassword(hash, "wrong password"))
}

func TestNewRefreshTokenIsUnique(t *testing.T) {
	a, err := NewRefreshToken()
	require.NoError(t, err)
	b, err := NewRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, refreshTokenBytes*2)
	assert.NotEqual(t, a, b)
}

func TestHashAndCheckRefreshToken(t *testing.T) {
	token, err := NewRefreshToken()
	require.NoError(t, err)

	hash, err := HashRefreshToken(token)
	require.NoError(t, err)

	assert.NoError(t, CheckRefreshToken(hash, token))
	assert.Error(t, CheckRefreshToken(hash, "something else"))
}
