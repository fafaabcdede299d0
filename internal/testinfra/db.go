// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

// Package testinfra provides shared test fixtures: a migrated SQLite
// database and pre-built entities for handler and service tests.
package testinfra

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/config"
	"github.com/wealthvault/server/internal/database"
	"github.com/wealthvault/server/internal/models"
)

// TestJWTSecret is long enough to pass production-grade validation.
const TestJWTSecret = "test-secret-0123456789abcdef0123456789abcdef"

// NewTestConfig returns a config pointing at a throwaway SQLite file.
func NewTestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Server: config.ServerConfig{
			Port:        3000,
			Host:        "127.0.0.1",
			Timeout:     5 * time.Second,
			Environment: "test",
		},
		Database: config.DatabaseConfig{
			URL:             filepath.Join(t.TempDir(), "test.db"),
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Minute,
		},
		Security: config.SecurityConfig{
			JWTSecret:         TestJWTSecret,
			AccessTokenTTL:    15 * time.Minute,
			RefreshTokenTTL:   7 * 24 * time.Hour,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
		API: config.APIConfig{
			DefaultPageSize: 25,
			MaxPageSize:     100,
		},
		Logging: config.LoggingConfig{
			Level:  "error",
			Format: "json",
		},
	}
}

// OpenTestDB opens a fresh migrated SQLite database for a test.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(NewTestConfig(t))
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// TestPassword is the plaintext behind every test user's hash.
const TestPassword = "password1234"

// CreateTestUser inserts a user whose password is TestPassword. MinCost
// keeps the per-test bcrypt overhead negligible.
func CreateTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  "Test User",
		BaseCurrency: "USD",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestAccount inserts an active SECURITIES account for the user.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID, name string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:      userID,
		Name:        name,
		AccountType: "SECURITIES",
		Currency:    "USD",
		IsActive:    true,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

// CreateTestAsset inserts a MANUAL asset for the symbol.
func CreateTestAsset(t *testing.T, db *gorm.DB, symbol string) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Symbol:     symbol,
		Name:       symbol + " Test Asset",
		AssetType:  "EQUITY",
		DataSource: "MANUAL",
		Currency:   "USD",
	}
	require.NoError(t, db.Create(asset).Error)
	return asset
}
