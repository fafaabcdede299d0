// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"

	"github.com/wealthvault/server/internal/metrics"
	"github.com/wealthvault/server/internal/models"
)

// cashEffect returns the signed cash flow of one activity in the
// account currency and the signed contribution amount for net
// contribution tracking. isCashAsset marks activities on the synthetic
// $CASH asset, which distinguishes cash transfers from in-kind ones.
func cashEffect(a *models.Activity, isCashAsset bool) (cash, contribution decimal.Decimal) {
	gross := a.Quantity.Mul(a.UnitPrice)

	switch a.ActivityType {
	case models.ActivityBuy:
		return gross.Add(a.Fee).Neg(), decimal.Zero
	case models.ActivitySell:
		return gross.Sub(a.Fee), decimal.Zero
	case models.ActivityDividend, models.ActivityInterest:
		return a.Amount.Sub(a.Fee), decimal.Zero
	case models.ActivityDeposit, models.ActivityContribution:
		return a.Amount.Sub(a.Fee), a.Amount
	case models.ActivityWithdrawal:
		return a.Amount.Add(a.Fee).Neg(), a.Amount.Neg()
	case models.ActivityTransferIn:
		if isCashAsset {
			return a.Amount, a.Amount
		}
		// In-kind transfers move securities, not cash; the position
		// value still counts as contributed capital.
		return decimal.Zero, gross
	case models.ActivityTransferOut:
		if isCashAsset {
			return a.Amount.Neg(), a.Amount.Neg()
		}
		return decimal.Zero, gross.Neg()
	case models.ActivityFee, models.ActivityTax:
		return a.Amount.Add(a.Fee).Neg(), decimal.Zero
	default:
		return decimal.Zero, decimal.Zero
	}
}

// accountValuation is the computed state of one account at a point in
// time, in the account's own currency.
type accountValuation struct {
	cashBalance     decimal.Decimal
	marketValue     decimal.Decimal
	costBasis       decimal.Decimal
	netContribution decimal.Decimal
}

// computeAccountValuation replays an account's activity history and
// values open positions at the latest close.
func (s *Service) computeAccountValuation(ctx context.Context, account *models.Account) (*accountValuation, error) {
	var activities []models.Activity
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND is_draft = ?", account.ID, false).
		Order("activity_date ASC, created_at ASC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	assetIDs := make(map[string]struct{})
	for i := range activities {
		assetIDs[activities[i].AssetID] = struct{}{}
	}
	assets, err := s.loadAssets(ctx, assetIDs)
	if err != nil {
		return nil, err
	}

	val := &accountValuation{}
	positions := make(map[string]*position)

	for i := range activities {
		a := &activities[i]
		asset, ok := assets[a.AssetID]
		isCash := ok && asset.AssetType == models.AssetTypeCash

		cash, contribution := cashEffect(a, isCash)
		val.cashBalance = val.cashBalance.Add(cash)
		val.netContribution = val.netContribution.Add(contribution)

		if ok && !isCash {
			pos, posOK := positions[a.AssetID]
			if !posOK {
				pos = &position{account: account}
				positions[a.AssetID] = pos
			}
			pos.applyActivity(a)
		}
	}

	for assetID, pos := range positions {
		if !pos.quantity.IsPositive() {
			continue
		}

		price, _, err := s.latestClose(ctx, assets[assetID].Symbol)
		if err != nil {
			return nil, err
		}

		val.marketValue = val.marketValue.Add(pos.quantity.Mul(price))
		val.costBasis = val.costBasis.Add(pos.cost)
	}

	return val, nil
}

// Recalculate recomputes today's valuation snapshot for every active
// account of the user and upserts it into daily_account_valuation.
// It returns the number of accounts processed.
func (s *Service) Recalculate(ctx context.Context, userID, baseCurrency string) (int, error) {
	start := time.Now()

	accounts, err := s.loadAccounts(ctx, userID, "")
	if err != nil {
		metrics.RecordValuationRun(time.Since(start), 0, err)
		return 0, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	for i := range accounts {
		account := &accounts[i]

		val, err := s.computeAccountValuation(ctx, account)
		if err != nil {
			metrics.RecordValuationRun(time.Since(start), i, err)
			return i, err
		}

		fxRate, err := s.latestRate(ctx, account.Currency, baseCurrency)
		if err != nil {
			// Value in account currency when no rate exists rather than
			// failing the whole run.
			fxRate = decimal.NewFromInt(1)
		}

		row := models.DailyAccountValuation{
			AccountID:             account.ID,
			ValuationDate:         today,
			AccountCurrency:       account.Currency,
			BaseCurrency:          baseCurrency,
			FxRateToBase:          fxRate,
			CashBalance:           val.cashBalance,
			InvestmentMarketValue: val.marketValue,
			TotalValue:            val.cashBalance.Add(val.marketValue),
			CostBasis:             val.costBasis,
			NetContribution:       val.netContribution,
			CalculatedAt:          time.Now().UTC(),
		}

		err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account_id"}, {Name: "valuation_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"account_currency", "base_currency", "fx_rate_to_base",
				"cash_balance", "investment_market_value", "total_value",
				"cost_basis", "net_contribution", "calculated_at",
			}),
		}).Create(&row).Error
		if err != nil {
			metrics.RecordValuationRun(time.Since(start), i, err)
			return i, fmt.Errorf("failed to upsert valuation for account %s: %w", account.ID, err)
		}
	}

	metrics.RecordValuationRun(time.Since(start), len(accounts), nil)
	return len(accounts), nil
}

// Valuations returns stored valuation snapshots for the user's accounts,
// optionally filtered by account and date range, newest first.
func (s *Service) Valuations(ctx context.Context, userID, accountID string, from, to *time.Time) ([]models.DailyAccountValuation, error) {
	accounts, err := s.loadAccounts(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return []models.DailyAccountValuation{}, nil
	}

	ids := make([]string, len(accounts))
	for i := range accounts {
		ids[i] = accounts[i].ID
	}

	q := s.db.WithContext(ctx).Where("account_id IN ?", ids)
	if from != nil {
		q = q.Where("valuation_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("valuation_date <= ?", *to)
	}

	var rows []models.DailyAccountValuation
	if err := q.Order("valuation_date DESC, account_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load valuations: %w", err)
	}
	return rows, nil
}
