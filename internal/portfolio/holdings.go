// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package portfolio

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wealthvault/server/internal/models"
)

// Holding is one asset position within an account, valued at the latest
// available close price.
type Holding struct {
	AccountID     string  `json:"account_id"`
	AccountName   string  `json:"account_name"`
	AssetID       string  `json:"asset_id"`
	Symbol        string  `json:"symbol"`
	AssetName     string  `json:"asset_name"`
	AssetType     string  `json:"asset_type"`
	Currency      string  `json:"currency"`
	Quantity      float64 `json:"quantity"`
	AverageCost   float64 `json:"average_cost"`
	CostBasis     float64 `json:"cost_basis"`
	MarketPrice   float64 `json:"market_price"`
	MarketValue   float64 `json:"market_value"`
	UnrealizedPL  float64 `json:"unrealized_pl"`
	UnrealizedPct float64 `json:"unrealized_pl_percent"`
}

// position accumulates a running position while replaying activities in
// date order. Cost basis is the total purchase cost of all buys; sells
// reduce quantity but never cost, so the unrealized figure compares
// market value against everything ever paid in.
type position struct {
	account  *models.Account
	quantity decimal.Decimal
	bought   decimal.Decimal
	cost     decimal.Decimal
}

func (p *position) applyActivity(a *models.Activity) {
	switch a.ActivityType {
	case models.ActivityBuy:
		p.cost = p.cost.Add(a.Quantity.Mul(a.UnitPrice))
		p.bought = p.bought.Add(a.Quantity)
		p.quantity = p.quantity.Add(a.Quantity)
	case models.ActivityTransferIn:
		p.quantity = p.quantity.Add(a.Quantity)
	case models.ActivitySell, models.ActivityTransferOut:
		p.quantity = p.quantity.Sub(a.Quantity)
	case models.ActivitySplit:
		// Quantity field carries the split ratio (e.g. 2 for a 2:1 split).
		if a.Quantity.IsPositive() {
			p.quantity = p.quantity.Mul(a.Quantity)
		}
	}
}

// Holdings computes current positions for all of a user's active
// accounts, or for a single account when accountID is non-empty. Draft
// activities are excluded and positions with zero quantity are dropped.
func (s *Service) Holdings(ctx context.Context, userID, accountID string) ([]Holding, error) {
	accounts, err := s.loadAccounts(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return []Holding{}, nil
	}

	accountsByID := make(map[string]*models.Account, len(accounts))
	accountIDs := make([]string, 0, len(accounts))
	for i := range accounts {
		accountsByID[accounts[i].ID] = &accounts[i]
		accountIDs = append(accountIDs, accounts[i].ID)
	}

	var activities []models.Activity
	err = s.db.WithContext(ctx).
		Where("account_id IN ? AND is_draft = ?", accountIDs, false).
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

	positions := make(map[string]*position)
	for i := range activities {
		a := &activities[i]
		asset, ok := assets[a.AssetID]
		if !ok || asset.AssetType == models.AssetTypeCash {
			continue
		}
		key := a.AccountID + "/" + a.AssetID
		pos, ok := positions[key]
		if !ok {
			pos = &position{account: accountsByID[a.AccountID]}
			positions[key] = pos
		}
		pos.applyActivity(a)
	}

	holdings := make([]Holding, 0, len(positions))
	for key, pos := range positions {
		if !pos.quantity.IsPositive() {
			continue
		}

		assetID := key[len(pos.account.ID)+1:]
		asset, ok := assets[assetID]
		if !ok {
			continue
		}

		price, _, err := s.latestClose(ctx, asset.Symbol)
		if err != nil {
			return nil, err
		}

		marketValue := pos.quantity.Mul(price)
		avgCost := decimal.Zero
		if pos.bought.IsPositive() {
			avgCost = pos.cost.Div(pos.bought)
		}
		unrealized := marketValue.Sub(pos.cost)
		unrealizedPct := decimal.Zero
		if pos.cost.IsPositive() {
			unrealizedPct = unrealized.Div(pos.cost).Mul(decimal.NewFromInt(100))
		}

		holdings = append(holdings, Holding{
			AccountID:     pos.account.ID,
			AccountName:   pos.account.Name,
			AssetID:       asset.ID,
			Symbol:        asset.Symbol,
			AssetName:     asset.Name,
			AssetType:     asset.AssetType,
			Currency:      pos.account.Currency,
			Quantity:      pos.quantity.InexactFloat64(),
			AverageCost:   avgCost.InexactFloat64(),
			CostBasis:     pos.cost.InexactFloat64(),
			MarketPrice:   price.InexactFloat64(),
			MarketValue:   marketValue.InexactFloat64(),
			UnrealizedPL:  unrealized.InexactFloat64(),
			UnrealizedPct: unrealizedPct.InexactFloat64(),
		})
	}

	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].AccountName != holdings[j].AccountName {
			return holdings[i].AccountName < holdings[j].AccountName
		}
		return holdings[i].Symbol < holdings[j].Symbol
	})

	return holdings, nil
}

func (s *Service) loadAccounts(ctx context.Context, userID, accountID string) ([]models.Account, error) {
	q := s.db.WithContext(ctx).Where("user_id = ? AND is_active = ?", userID, true)
	if accountID != "" {
		q = q.Where("id = ?", accountID)
	}

	var accounts []models.Account
	if err := q.Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return accounts, nil
}

func (s *Service) loadAssets(ctx context.Context, ids map[string]struct{}) (map[string]*models.Asset, error) {
	if len(ids) == 0 {
		return map[string]*models.Asset{}, nil
	}

	idList := make([]string, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}

	var assets []models.Asset
	if err := s.db.WithContext(ctx).Where("id IN ?", idList).Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	byID := make(map[string]*models.Asset, len(assets))
	for i := range assets {
		byID[assets[i].ID] = &assets[i]
	}
	return byID, nil
}
