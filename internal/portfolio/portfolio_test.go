// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package portfolio_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wealthvault/server/internal/models"
	"github.com/wealthvault/server/internal/portfolio"
	"github.com/wealthvault/server/internal/testinfra"
)

func createCashAsset(t *testing.T, db *gorm.DB, currency string) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Symbol:     models.CashSymbol(currency),
		Name:       "Cash " + currency,
		AssetType:  models.AssetTypeCash,
		DataSource: "MANUAL",
		Currency:   currency,
	}
	require.NoError(t, db.Create(asset).Error)
	return asset
}

func createActivity(t *testing.T, db *gorm.DB, userID, accountID, assetID, activityType string, daysAgo int, qty, price, fee, amount float64) *models.Activity {
	t.Helper()

	activity := &models.Activity{
		UserID:       userID,
		AccountID:    accountID,
		AssetID:      assetID,
		ActivityType: activityType,
		ActivityDate: time.Now().AddDate(0, 0, -daysAgo),
		Quantity:     decimal.NewFromFloat(qty),
		UnitPrice:    decimal.NewFromFloat(price),
		Fee:          decimal.NewFromFloat(fee),
		Amount:       decimal.NewFromFloat(amount),
		Currency:     "USD",
	}
	require.NoError(t, db.Create(activity).Error)
	return activity
}

func createQuote(t *testing.T, db *gorm.DB, symbol string, close float64) {
	t.Helper()

	quote := &models.Quote{
		Symbol:     symbol,
		Timestamp:  time.Now(),
		ClosePrice: decimal.NewFromFloat(close),
		Currency:   "USD",
		DataSource: "MANUAL",
	}
	require.NoError(t, db.Create(quote).Error)
}

func TestHoldingsAverageCost(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	account := testinfra.CreateTestAccount(t, db, user.ID, "Brokerage")
	asset := testinfra.CreateTestAsset(t, db, "AAPL")
	svc := portfolio.NewService(db)

	// 10 @ 100 + 10 @ 200, then sell 5. The sell reduces quantity but
	// the cost basis keeps the full purchase cost of both buys.
	createActivity(t, db, user.ID, account.ID, asset.ID, models.ActivityBuy, 30, 10, 100, 0, 0)
	createActivity(t, db, user.ID, account.ID, asset.ID, models.ActivityBuy, 20, 10, 200, 0, 0)
	createActivity(t, db, user.ID, account.ID, asset.ID, models.ActivitySell, 10, 5, 250, 0, 0)
	createQuote(t, db, "AAPL", 300)

	holdings, err := svc.Holdings(context.Background(), user.ID, "")
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	h := holdings[0]
	assert.Equal(t, "AAPL", h.Symbol)
	assert.InDelta(t, 15, h.Quantity, 1e-9)
	assert.InDelta(t, 150, h.AverageCost, 1e-9)
	assert.InDelta(t, 3000, h.CostBasis, 1e-9)
	assert.InDelta(t, 4500, h.MarketValue, 1e-9)
	assert.InDelta(t, 1500, h.UnrealizedPL, 1e-9)
	assert.InDelta(t, 50, h.UnrealizedPct, 1e-9)
}

func TestHoldingsSellNeverReducesCostBasis(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	account := testinfra.CreateTestAccount(t, db, user.ID, "Brokerage")
	asset := testinfra.CreateTestAsset(t, db, "AAPL")
	svc := portfolio.NewService(db)

	// Buy 10 @ 100, sell 3, latest close 120. The position is under
	// water against the original 1000 paid even though the price rose.
	createActivity(t, db, user.ID, account.ID, asset.ID, models.ActivityBuy, 10, 10, 100, 0, 0)
	createActivity(t, db, user.ID, account.ID, asset.ID, models.ActivitySell, 5, 3, 110, 0, 0)
	createQuote(t, db, "AAPL", 120)

	holdings, err := svc.Holdings(context.Background(), user.ID, "")
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	h := holdings[0]
	assert.InDelta(t, 7, h.Quantity, 1e-9)
	assert.InDelta(t, 1000, h.CostBasis, 1e-9)
	assert.InDelta(t, 100, h.AverageCost, 1e-9)
	assert.InDelta(t, 840, h.MarketValue, 1e-9)
	assert.InDelta(t, -160, h.UnrealizedPL, 1e-9)
	assert.InDelta(t, -16, h.UnrealizedPct, 1e-9)
}

func TestHoldingsExcludeClosedAndDraft(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	account := testinfra.CreateTestAccount(t, db, user.ID, "Brokerage")
	closed := testinfra.CreateTestAsset(t, db, "MSFT")
	draftOnly := testinfra.CreateTestAsset(t, db, "NVDA")
	svc := portfolio.NewService(db)

	createActivity(t, db, user.ID, account.ID, closed.ID, models.ActivityBuy, 10, 5, 100, 0, 0)
	createActivity(t, db, user.ID, account.ID, closed.ID, models.ActivitySell, 5, 5, 120, 0, 0)

	draft := createActivity(t, db, user.ID, account.ID, draftOnly.ID, models.ActivityBuy, 2, 5, 100, 0, 0)
	require.NoError(t, db.Model(draft).Update("is_draft", true).Error)

	holdings, err := svc.Holdings(context.Background(), user.ID, "")
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestHoldingsSplitAdjustsQuantity(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	account := testinfra.CreateTestAccount(t, db, user.ID, "Brokerage")
	asset := testinfra.CreateTestAsset(t, db, "TSLA")
	svc := portfolio.NewService(db)

	createActivity(t, db, user.ID, account.ID, asset.ID, models.ActivityBuy, 20, 10, 300, 0, 0)
	createActivity(t, db, user.ID, account.ID, asset.ID, models.ActivitySplit, 10, 3, 0, 0, 0)
	createQuote(t, db, "TSLA", 120)

	holdings, err := svc.Holdings(context.Background(), user.ID, "")
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	assert.InDelta(t, 30, holdings[0].Quantity, 1e-9)
	assert.InDelta(t, 3000, holdings[0].CostBasis, 1e-9)
	assert.InDelta(t, 300, holdings[0].AverageCost, 1e-9)
}

func TestSummarizeCombinesCashAndPositions(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	account := testinfra.CreateTestAccount(t, db, user.ID, "Brokerage")
	cash := createCashAsset(t, db, "USD")
	asset := testinfra.CreateTestAsset(t, db, "AAPL")
	svc := portfolio.NewService(db)

	createActivity(t, db, user.ID, account.ID, cash.ID, models.ActivityDeposit, 30, 0, 0, 0, 10000)
	createActivity(t, db, user.ID, account.ID, asset.ID, models.ActivityBuy, 20, 10, 100, 10, 0)
	createQuote(t, db, "AAPL", 150)

	summary, err := svc.Summarize(context.Background(), user.ID, "USD")
	require.NoError(t, err)
	require.Len(t, summary.Accounts, 1)

	acc := summary.Accounts[0]
	assert.InDelta(t, 8990, acc.CashBalance, 1e-9)
	assert.InDelta(t, 1500, acc.MarketValue, 1e-9)
	assert.InDelta(t, 10490, acc.TotalValue, 1e-9)
	assert.InDelta(t, 10000, acc.NetContribution, 1e-9)

	assert.InDelta(t, 10490, summary.TotalValue, 1e-9)
	assert.InDelta(t, 500, summary.UnrealizedPL, 1e-9)
	assert.InDelta(t, 50, summary.UnrealizedPct, 1e-9)
	assert.Equal(t, "USD", summary.BaseCurrency)
}

func TestRecalculatePersistsValuation(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	account := testinfra.CreateTestAccount(t, db, user.ID, "Brokerage")
	cash := createCashAsset(t, db, "USD")
	svc := portfolio.NewService(db)

	createActivity(t, db, user.ID, account.ID, cash.ID, models.ActivityDeposit, 5, 0, 0, 0, 2500)

	processed, err := svc.Recalculate(context.Background(), user.ID, "USD")
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	// Running twice must upsert, not duplicate.
	_, err = svc.Recalculate(context.Background(), user.ID, "USD")
	require.NoError(t, err)

	var rows []models.DailyAccountValuation
	require.NoError(t, db.Where("account_id = ?", account.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].CashBalance.Equal(decimal.NewFromInt(2500)))
	assert.True(t, rows[0].TotalValue.Equal(decimal.NewFromInt(2500)))
}

func TestValuationsFilterByDateRange(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	account := testinfra.CreateTestAccount(t, db, user.ID, "Brokerage")
	svc := portfolio.NewService(db)

	for _, daysAgo := range []int{1, 10, 30} {
		row := models.DailyAccountValuation{
			AccountID:       account.ID,
			ValuationDate:   time.Now().UTC().AddDate(0, 0, -daysAgo).Truncate(24 * time.Hour),
			AccountCurrency: "USD",
			BaseCurrency:    "USD",
			FxRateToBase:    decimal.NewFromInt(1),
			TotalValue:      decimal.NewFromInt(int64(1000 * daysAgo)),
			CalculatedAt:    time.Now().UTC(),
		}
		require.NoError(t, db.Create(&row).Error)
	}

	from := time.Now().UTC().AddDate(0, 0, -15)
	rows, err := svc.Valuations(context.Background(), user.ID, "", &from, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestPerformanceGainExcludesContributions(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	account := testinfra.CreateTestAccount(t, db, user.ID, "Brokerage")
	svc := portfolio.NewService(db)

	row := models.DailyAccountValuation{
		AccountID:       account.ID,
		ValuationDate:   time.Now().UTC().Truncate(24 * time.Hour),
		AccountCurrency: "USD",
		BaseCurrency:    "USD",
		FxRateToBase:    decimal.NewFromInt(1),
		TotalValue:      decimal.NewFromInt(11000),
		NetContribution: decimal.NewFromInt(10000),
		CalculatedAt:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&row).Error)

	points, err := svc.Performance(context.Background(), user.ID, "", nil, nil)
	require.NoError(t, err)
	require.Len(t, points, 1)

	assert.InDelta(t, 11000, points[0].TotalValue, 1e-9)
	assert.InDelta(t, 1000, points[0].GainAmount, 1e-9)
	assert.InDelta(t, 10, points[0].GainPercent, 1e-9)
}

func TestIncomeGroupsByMonth(t *testing.T) {
	db := testinfra.OpenTestDB(t)
	user := testinfra.CreateTestUser(t, db, "alice@example.com")
	account := testinfra.CreateTestAccount(t, db, user.ID, "Brokerage")
	asset := testinfra.CreateTestAsset(t, db, "AAPL")
	svc := portfolio.NewService(db)

	createActivity(t, db, user.ID, account.ID, asset.ID, models.ActivityDividend, 5, 0, 0, 0, 120)
	createActivity(t, db, user.ID, account.ID, asset.ID, models.ActivityInterest, 5, 0, 0, 0, 30)
	createActivity(t, db, user.ID, account.ID, asset.ID, models.ActivityDividend, 400, 0, 0, 0, 75)

	report, err := svc.Income(context.Background(), user.ID, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 225, report.Total, 1e-9)
	require.Len(t, report.Months, 2)
	assert.InDelta(t, 75, report.Months[0].Total, 1e-9)
	assert.InDelta(t, 150, report.Months[1].Total, 1e-9)

	require.Len(t, report.Assets, 1)
	assert.Equal(t, "AAPL", report.Assets[0].Symbol)
	assert.InDelta(t, 195, report.Assets[0].Dividend, 1e-9)
	assert.InDelta(t, 30, report.Assets[0].Interest, 1e-9)
	assert.InDelta(t, 225, report.Assets[0].Total, 1e-9)
}
