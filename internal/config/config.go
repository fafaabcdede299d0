// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

// Package config provides layered application configuration backed by
// Koanf v2. Precedence is environment variables > config file > built-in
// defaults.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// Host is the listen address.
	Host string `koanf:"host"`

	// Timeout applies to both read and write on the HTTP server.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is one of: development, test, production.
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds relational database settings.
//
// URL selects the driver by scheme: "postgres://..." opens PostgreSQL,
// anything else is treated as a SQLite file path (":memory:" works for
// tests). DevURL is used instead of URL outside production.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	DevURL          string        `koanf:"dev_url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	LogQueries      bool          `koanf:"log_queries"`
}

// SecurityConfig holds authentication and transport security settings.
type SecurityConfig struct {
	// JWTSecret signs access tokens. Minimum 32 characters in production.
	JWTSecret string `koanf:"jwt_secret"`

	// AccessTokenTTL is the lifetime of issued access tokens.
	AccessTokenTTL time.Duration `koanf:"access_token_ttl"`

	// RefreshTokenTTL is the lifetime of refresh sessions.
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// APIConfig holds API behaviour settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// DatabaseDSN returns the effective database connection string for the
// current environment.
func (c *Config) DatabaseDSN() string {
	if !c.IsProduction() && c.Database.DevURL != "" {
		return c.Database.DevURL
	}
	return c.Database.URL
}
