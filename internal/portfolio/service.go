// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

// Package portfolio computes holdings, valuations and performance from
// activity history and quotes. All money arithmetic runs on
// decimal.Decimal; float64 appears only in response DTOs.
package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/models"
)

// Service computes portfolio state for a user.
type Service struct {
	db *gorm.DB
}

// NewService creates a portfolio service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// latestRate resolves the most recent exchange rate from one currency to
// another. Identical currencies return 1. A missing rate is reported as
// an error so callers can decide between failing and skipping.
func (s *Service) latestRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to || from == "" || to == "" {
		return decimal.NewFromInt(1), nil
	}

	var rate models.ExchangeRate
	err := s.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ?", from, to).
		Order("timestamp DESC").
		First(&rate).Error
	if err == nil {
		return rate.Rate, nil
	}
	if err != gorm.ErrRecordNotFound {
		return decimal.Zero, fmt.Errorf("failed to load exchange rate %s/%s: %w", from, to, err)
	}

	// Try the inverse pair before giving up.
	err = s.db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ?", to, from).
		Order("timestamp DESC").
		First(&rate).Error
	if err == nil && !rate.Rate.IsZero() {
		return decimal.NewFromInt(1).Div(rate.Rate), nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return decimal.Zero, fmt.Errorf("failed to load exchange rate %s/%s: %w", to, from, err)
	}

	return decimal.Zero, fmt.Errorf("no exchange rate for %s/%s", from, to)
}

// latestClose returns the most recent close price for a symbol, or zero
// when no quote exists.
func (s *Service) latestClose(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error) {
	var quote models.Quote
	err := s.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("timestamp DESC").
		First(&quote).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero, time.Time{}, nil
	}
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("failed to load quote for %s: %w", symbol, err)
	}
	return quote.ClosePrice, quote.Timestamp, nil
}
