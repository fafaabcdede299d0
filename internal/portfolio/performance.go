// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package portfolio

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthvault/server/internal/models"
)

// AccountSummary is the valued state of one account in both its own
// currency and the user's base currency.
type AccountSummary struct {
	AccountID       string  `json:"account_id"`
	AccountName     string  `json:"account_name"`
	AccountType     string  `json:"account_type"`
	GroupName       string  `json:"group,omitempty"`
	Currency        string  `json:"currency"`
	CashBalance     float64 `json:"cash_balance"`
	MarketValue     float64 `json:"market_value"`
	TotalValue      float64 `json:"total_value"`
	CostBasis       float64 `json:"cost_basis"`
	NetContribution float64 `json:"net_contribution"`
	FxRateToBase    float64 `json:"fx_rate_to_base"`
	TotalValueBase  float64 `json:"total_value_base"`
}

// Summary is the whole-portfolio rollup in the user's base currency.
type Summary struct {
	BaseCurrency    string           `json:"base_currency"`
	TotalValue      float64          `json:"total_value"`
	CashBalance     float64          `json:"cash_balance"`
	MarketValue     float64          `json:"market_value"`
	CostBasis       float64          `json:"cost_basis"`
	NetContribution float64          `json:"net_contribution"`
	UnrealizedPL    float64          `json:"unrealized_pl"`
	UnrealizedPct   float64          `json:"unrealized_pl_percent"`
	Accounts        []AccountSummary `json:"accounts"`
	AsOf            time.Time        `json:"as_of"`
}

// Summarize values every active account live and rolls the results up
// into the user's base currency. Accounts whose currency has no
// exchange rate to base contribute at a rate of 1.
func (s *Service) Summarize(ctx context.Context, userID, baseCurrency string) (*Summary, error) {
	accounts, err := s.loadAccounts(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		BaseCurrency: baseCurrency,
		Accounts:     make([]AccountSummary, 0, len(accounts)),
		AsOf:         time.Now().UTC(),
	}

	totalValue := decimal.Zero
	totalCash := decimal.Zero
	totalMarket := decimal.Zero
	totalCost := decimal.Zero
	totalContribution := decimal.Zero

	for i := range accounts {
		account := &accounts[i]

		val, err := s.computeAccountValuation(ctx, account)
		if err != nil {
			return nil, err
		}

		fxRate, err := s.latestRate(ctx, account.Currency, baseCurrency)
		if err != nil {
			fxRate = decimal.NewFromInt(1)
		}

		total := val.cashBalance.Add(val.marketValue)

		summary.Accounts = append(summary.Accounts, AccountSummary{
			AccountID:       account.ID,
			AccountName:     account.Name,
			AccountType:     account.AccountType,
			GroupName:       account.GroupName,
			Currency:        account.Currency,
			CashBalance:     val.cashBalance.InexactFloat64(),
			MarketValue:     val.marketValue.InexactFloat64(),
			TotalValue:      total.InexactFloat64(),
			CostBasis:       val.costBasis.InexactFloat64(),
			NetContribution: val.netContribution.InexactFloat64(),
			FxRateToBase:    fxRate.InexactFloat64(),
			TotalValueBase:  total.Mul(fxRate).InexactFloat64(),
		})

		totalValue = totalValue.Add(total.Mul(fxRate))
		totalCash = totalCash.Add(val.cashBalance.Mul(fxRate))
		totalMarket = totalMarket.Add(val.marketValue.Mul(fxRate))
		totalCost = totalCost.Add(val.costBasis.Mul(fxRate))
		totalContribution = totalContribution.Add(val.netContribution.Mul(fxRate))
	}

	summary.TotalValue = totalValue.InexactFloat64()
	summary.CashBalance = totalCash.InexactFloat64()
	summary.MarketValue = totalMarket.InexactFloat64()
	summary.CostBasis = totalCost.InexactFloat64()
	summary.NetContribution = totalContribution.InexactFloat64()
	gain := totalMarket.Sub(totalCost)
	summary.UnrealizedPL = gain.InexactFloat64()
	if totalCost.IsPositive() {
		summary.UnrealizedPct = gain.Div(totalCost).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return summary, nil
}

// PerformancePoint is one day of portfolio value in base currency.
type PerformancePoint struct {
	Date            string  `json:"date"`
	TotalValue      float64 `json:"total_value"`
	NetContribution float64 `json:"net_contribution"`
	GainAmount      float64 `json:"gain_amount"`
	GainPercent     float64 `json:"gain_percent"`
}

// Performance aggregates stored valuation snapshots into a per-day
// series in base currency. Gain compares value against net contribution,
// so deposits do not show up as returns.
func (s *Service) Performance(ctx context.Context, userID, accountID string, from, to *time.Time) ([]PerformancePoint, error) {
	rows, err := s.Valuations(ctx, userID, accountID, from, to)
	if err != nil {
		return nil, err
	}

	type dayTotal struct {
		value        decimal.Decimal
		contribution decimal.Decimal
	}
	byDay := make(map[string]*dayTotal)
	for i := range rows {
		row := &rows[i]
		day := row.ValuationDate.Format("2006-01-02")
		t, ok := byDay[day]
		if !ok {
			t = &dayTotal{}
			byDay[day] = t
		}
		t.value = t.value.Add(row.TotalValue.Mul(row.FxRateToBase))
		t.contribution = t.contribution.Add(row.NetContribution.Mul(row.FxRateToBase))
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]PerformancePoint, 0, len(days))
	for _, day := range days {
		t := byDay[day]
		gain := t.value.Sub(t.contribution)
		gainPct := decimal.Zero
		if t.contribution.IsPositive() {
			gainPct = gain.Div(t.contribution).Mul(decimal.NewFromInt(100))
		}
		points = append(points, PerformancePoint{
			Date:            day,
			TotalValue:      t.value.InexactFloat64(),
			NetContribution: t.contribution.InexactFloat64(),
			GainAmount:      gain.InexactFloat64(),
			GainPercent:     gainPct.InexactFloat64(),
		})
	}

	return points, nil
}

// IncomeEntry is dividend and interest income for one month.
type IncomeEntry struct {
	Month    string  `json:"month"`
	Dividend float64 `json:"dividend"`
	Interest float64 `json:"interest"`
	Total    float64 `json:"total"`
}

// AssetIncome is dividend and interest income attributed to one asset.
type AssetIncome struct {
	AssetID  string  `json:"asset_id"`
	Symbol   string  `json:"symbol"`
	Dividend float64 `json:"dividend"`
	Interest float64 `json:"interest"`
	Total    float64 `json:"total"`
}

// IncomeReport groups income by month and by asset with an overall total.
type IncomeReport struct {
	Currency string        `json:"currency"`
	Total    float64       `json:"total"`
	Months   []IncomeEntry `json:"months"`
	Assets   []AssetIncome `json:"assets"`
}

// Income reports dividend and interest income per month across the
// user's active accounts. Amounts are summed as recorded; currency
// conversion is deliberately left to the valuation pipeline.
func (s *Service) Income(ctx context.Context, userID string, from, to *time.Time) (*IncomeReport, error) {
	accounts, err := s.loadAccounts(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return &IncomeReport{Months: []IncomeEntry{}, Assets: []AssetIncome{}}, nil
	}

	ids := make([]string, len(accounts))
	for i := range accounts {
		ids[i] = accounts[i].ID
	}

	q := s.db.WithContext(ctx).
		Where("account_id IN ? AND is_draft = ? AND activity_type IN ?",
			ids, false, []string{models.ActivityDividend, models.ActivityInterest})
	if from != nil {
		q = q.Where("activity_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("activity_date <= ?", *to)
	}

	var activities []models.Activity
	if err := q.Order("activity_date ASC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to load income activities: %w", err)
	}

	type monthTotal struct {
		dividend decimal.Decimal
		interest decimal.Decimal
	}
	byMonth := make(map[string]*monthTotal)
	byAsset := make(map[string]*monthTotal)
	total := decimal.Zero
	currency := ""

	for i := range activities {
		a := &activities[i]
		month := a.ActivityDate.Format("2006-01")
		t, ok := byMonth[month]
		if !ok {
			t = &monthTotal{}
			byMonth[month] = t
		}
		at, ok := byAsset[a.AssetID]
		if !ok {
			at = &monthTotal{}
			byAsset[a.AssetID] = at
		}
		if a.ActivityType == models.ActivityDividend {
			t.dividend = t.dividend.Add(a.Amount)
			at.dividend = at.dividend.Add(a.Amount)
		} else {
			t.interest = t.interest.Add(a.Amount)
			at.interest = at.interest.Add(a.Amount)
		}
		total = total.Add(a.Amount)
		if currency == "" {
			currency = a.Currency
		}
	}

	symbols := make(map[string]string, len(byAsset))
	if len(byAsset) > 0 {
		assetIDs := make([]string, 0, len(byAsset))
		for id := range byAsset {
			assetIDs = append(assetIDs, id)
		}
		var assets []models.Asset
		if err := s.db.WithContext(ctx).Where("id IN ?", assetIDs).Find(&assets).Error; err != nil {
			return nil, fmt.Errorf("failed to load income assets: %w", err)
		}
		for i := range assets {
			symbols[assets[i].ID] = assets[i].Symbol
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	report := &IncomeReport{
		Currency: currency,
		Total:    total.InexactFloat64(),
		Months:   make([]IncomeEntry, 0, len(months)),
		Assets:   make([]AssetIncome, 0, len(byAsset)),
	}
	for _, m := range months {
		t := byMonth[m]
		report.Months = append(report.Months, IncomeEntry{
			Month:    m,
			Dividend: t.dividend.InexactFloat64(),
			Interest: t.interest.InexactFloat64(),
			Total:    t.dividend.Add(t.interest).InexactFloat64(),
		})
	}
	for id, t := range byAsset {
		report.Assets = append(report.Assets, AssetIncome{
			AssetID:  id,
			Symbol:   symbols[id],
			Dividend: t.dividend.InexactFloat64(),
			Interest: t.interest.InexactFloat64(),
			Total:    t.dividend.Add(t.interest).InexactFloat64(),
		})
	}
	sort.Slice(report.Assets, func(i, j int) bool {
		return report.Assets[i].Symbol < report.Assets[j].Symbol
	})

	return report, nil
}
