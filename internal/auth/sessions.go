// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/models"
)

// ErrSessionNotFound is returned when a refresh token does not match any
// live session. The caller should treat it as an authentication failure,
// not a server error.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore manages refresh token sessions. Refresh tokens are never
// stored in plaintext; each session row holds a bcrypt hash and the
// presented token is matched by comparison.
type SessionStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewSessionStore creates a session store with the configured refresh
// token lifetime.
func NewSessionStore(db *gorm.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl}
}

// Create issues a new refresh token, persists its hash as a session and
// returns the plaintext token. The plaintext leaves the server exactly
// once, in the response to the caller.
func (s *SessionStore) Create(ctx context.Context, userID, userAgent, ipAddress string) (string, *models.Session, error) {
	token, err := NewRefreshToken()
	if err != nil {
		return "", nil, err
	}

	hash, err := HashRefreshToken(token)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	session := &models.Session{
		UserID:     userID,
		TokenHash:  hash,
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
		ExpiresAt:  now.Add(s.ttl),
		LastUsedAt: now,
	}

	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	return token, session, nil
}

// findByToken locates the live session matching a presented refresh
// token. Hashes cannot be looked up directly, so all non-expired
// sessions are scanned and compared with bcrypt.
func (s *SessionStore) findByToken(ctx context.Context, token string) (*models.Session, error) {
	var sessions []models.Session
	err := s.db.WithContext(ctx).
		Where("expires_at > ?", time.Now()).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	for i := range sessions {
		if CheckRefreshToken(sessions[i].TokenHash, token) == nil {
			return &sessions[i], nil
		}
	}

	return nil, ErrSessionNotFound
}

// Rotate exchanges a valid refresh token for a new one. The matched
// session keeps its identity but receives a fresh hash, expiry and
// last-used timestamp, so a stolen old token becomes useless after the
// legitimate client refreshes.
func (s *SessionStore) Rotate(ctx context.Context, token string) (string, *models.Session, error) {
	session, err := s.findByToken(ctx, token)
	if err != nil {
		return "", nil, err
	}

	newToken, err := NewRefreshToken()
	if err != nil {
		return "", nil, err
	}
	newHash, err := HashRefreshToken(newToken)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	session.TokenHash = newHash
	session.ExpiresAt = now.Add(s.ttl)
	session.LastUsedAt = now

	if err := s.db.WithContext(ctx).Save(session).Error; err != nil {
		return "", nil, fmt.Errorf("failed to rotate session: %w", err)
	}

	return newToken, session, nil
}

// Revoke deletes the session matching a refresh token. Unknown tokens
// return ErrSessionNotFound.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	session, err := s.findByToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", session.ID).Error; err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RevokeAll deletes every session belonging to a user, logging the user
// out of all devices.
func (s *SessionStore) RevokeAll(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Session{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

// PruneExpired removes sessions whose expiry has passed and returns the
// number deleted.
func (s *SessionStore) PruneExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Session{}, "expires_at <= ?", time.Now())
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
