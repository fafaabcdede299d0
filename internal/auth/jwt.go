// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wealthvault/server/internal/config"
)

// Issuer is the value stamped into the iss claim of every access token.
const Issuer = "wealthvault"

// ErrTokenExpired is returned by ValidateToken when the token was well
// formed and correctly signed but its expiry has passed. Callers use it
// to distinguish "log in again" from "this token was never valid".
var ErrTokenExpired = errors.New("token expired")

// Claims represents the JWT claims carried by an access token. The user
// ID travels in the registered Subject claim.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager handles access token creation and validation.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTManager creates a new JWT token manager with the configured secret
// and access token lifetime.
//
// The manager signs tokens with HMAC-SHA256. The secret is stored as
// []byte to avoid string interning of key material.
//
// Parameters:
//   - cfg: Security configuration containing JWT secret and token TTL
//
// Returns:
//   - Pointer to initialized JWTManager
//   - error if the JWT secret is empty
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}

	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.AccessTokenTTL,
	}, nil
}

// GenerateToken creates a signed access token for an authenticated user.
//
// The token carries the user ID as Subject and the email as a private
// claim, and is valid for the configured access token TTL.
//
// Parameters:
//   - userID: UUID of the authenticated user
//   - email: user's email, carried for display and debugging
//
// Returns:
//   - Signed JWT token string
//   - error if token signing fails
func (m *JWTManager) GenerateToken(userID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates an access token and extracts its claims.
//
// Validation checks the HMAC-SHA256 signature, the signing algorithm
// (rejecting algorithm confusion attempts), the issuer, and the time
// claims. An expired but otherwise valid token returns ErrTokenExpired.
//
// Parameters:
//   - tokenString: compact JWT from the Authorization header
//
// Returns:
//   - Pointer to Claims containing user ID (Subject) and email
//   - ErrTokenExpired if the token's expiry has passed
//   - error for any other validation failure
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}
