// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = "test-secret-at-least-32-characters-long"
	return cfg
}

func TestDefaultConfigIsValidWithSecret(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Security.JWTSecret = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateJWTSecretLengthInProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Security.JWTSecret = "short"

	// Permitted in development
	cfg.Server.Environment = "development"
	require.NoError(t, cfg.Validate())

	// Rejected in production
	cfg.Server.Environment = "production"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}

func TestValidatePort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 3000
	assert.NoError(t, cfg.Validate())
}

func TestValidateEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Environment = "staging"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ENV")
}

func TestValidateRefreshLongerThanAccess(t *testing.T) {
	cfg := validConfig()
	cfg.Security.AccessTokenTTL = time.Hour
	cfg.Security.RefreshTokenTTL = time.Minute
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_REFRESH_EXPIRES_IN")
}

func TestDatabaseDSNPrefersDevURLOutsideProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Database.URL = "postgres://prod/db"
	cfg.Database.DevURL = "dev.db"

	cfg.Server.Environment = "development"
	assert.Equal(t, "dev.db", cfg.DatabaseDSN())

	cfg.Server.Environment = "production"
	assert.Equal(t, "postgres://prod/db", cfg.DatabaseDSN())
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"DATABASE_URL", "database.url"},
		{"DATABASE_URL_DEV", "database.dev_url"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"JWT_EXPIRES_IN", "security.access_token_ttl"},
		{"JWT_REFRESH_EXPIRES_IN", "security.refresh_token_ttl"},
		{"CORS_ORIGIN", "security.cors_origins"},
		{"RATE_LIMIT_MAX_REQUESTS", "security.rate_limit_reqs"},
		{"RATE_LIMIT_WINDOW", "security.rate_limit_window"},
		{"PORT", "server.port"},
		{"APP_ENV", "server.environment"},
		{"NODE_ENV", "server.environment"},
		{"LOG_LEVEL", "logging.level"},
		{"LOG_FILE", "logging.file"},
		{"RANDOM_UNRELATED_VAR", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, envTransformFunc(tt.env), "env %s", tt.env)
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-32-characters-long")
	t.Setenv("PORT", "4100")
	t.Setenv("DATABASE_URL", "postgres://localhost/wealth_test")
	t.Setenv("CORS_ORIGIN", "https://a.example.com, https://b.example.com")
	t.Setenv("JWT_EXPIRES_IN", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4100, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/wealth_test", cfg.Database.URL)
	assert.Equal(t, 30*time.Minute, cfg.Security.AccessTokenTTL)
	require.Len(t, cfg.Security.CORSOrigins, 2)
	assert.True(t, strings.HasPrefix(cfg.Security.CORSOrigins[0], "https://a."))
}
