// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// passwordCost is the bcrypt cost for user passwords. Passwords are
	// verified once per login, so a higher cost is affordable.
	passwordCost = 12

	// refreshTokenCost is the bcrypt cost for refresh token hashes.
	// Refresh verification scans every live session for the user, so the
	// cost stays lower than for passwords.
	refreshTokenCost = 10

	// refreshTokenBytes is the entropy of a refresh token before hex
	// encoding. 32 bytes keeps the encoded token under bcrypt's 72-byte
	// input limit.
	refreshTokenBytes = 32
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against its bcrypt hash.
// It returns nil on match and an error otherwise.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// NewRefreshToken generates a cryptographically random refresh token.
// The token is returned hex encoded; only its bcrypt hash is persisted.
func NewRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashRefreshToken hashes a refresh token for storage.
func HashRefreshToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), refreshTokenCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash refresh token: %w", err)
	}
	return string(hash), nil
}

// CheckRefreshToken compares a plaintext refresh token against a stored
// bcrypt hash. It returns nil on match.
func CheckRefreshToken(hash, token string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token))
}
