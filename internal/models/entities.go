// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

// Package models defines the persistent entities and the API response
// envelope. Entities map to the schema created by the SQL migrations in
// internal/database/migrations; GORM struct tags mirror that schema and
// are not used to create it.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User is an authenticated owner of accounts, activities and settings.
type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	DisplayName  string     `gorm:"size:255" json:"display_name"`
	BaseCurrency string     `gorm:"size:3;not null;default:USD" json:"base_currency"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Session is a refresh-token session. Only a bcrypt hash of the refresh
// token is stored; the token itself never touches the database.
type Session struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;not null;index" json:"user_id"`
	TokenHash  string    `gorm:"size:255;not null" json:"-"`
	UserAgent  string    `json:"user_agent"`
	IPAddress  string    `gorm:"size:45" json:"ip_address"`
	ExpiresAt  time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// TableName keeps the historical table name.
func (Session) TableName() string { return "user_sessions" }

// BeforeCreate assigns a UUID primary key when none is set.
func (s *Session) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// UserSettings holds per-user presentation preferences. One row per user,
// created lazily on first read.
type UserSettings struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	UserID              string    `gorm:"size:36;not null;uniqueIndex" json:"user_id"`
	Theme               string    `gorm:"size:50;not null;default:system" json:"theme"`
	FontFamily          string    `gorm:"size:100;not null;default:Inter" json:"font_family"`
	BaseCurrency        string    `gorm:"size:3;not null;default:USD" json:"base_currency"`
	PrivacyMode         bool      `gorm:"not null;default:false" json:"privacy_mode"`
	DateFormat          string    `gorm:"size:20;not null;default:YYYY-MM-DD" json:"date_format"`
	NumberFormat        string    `gorm:"size:20;not null;default:US" json:"number_format"`
	Timezone            string    `gorm:"size:50;not null;default:UTC" json:"timezone"`
	OnboardingCompleted bool      `gorm:"not null;default:false" json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (UserSettings) TableName() string { return "user_settings" }

// BeforeCreate assigns a UUID primary key when none is set.
func (s *UserSettings) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Platform is a brokerage or bank reference entry, seeded by migration.
type Platform struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	URL       string    `gorm:"size:512" json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Account is a user-owned brokerage or bank account.
type Account struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;index" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	AccountType string    `gorm:"size:32;not null;default:SECURITIES" json:"account_type"`
	GroupName   string    `gorm:"size:255" json:"group"`
	Currency    string    `gorm:"size:3;not null;default:USD" json:"currency"`
	PlatformID  *string   `gorm:"size:36" json:"platform_id"`
	IsDefault   bool      `gorm:"not null;default:false" json:"is_default"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (a *Account) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Asset is a tradeable instrument. Assets are global, not user-scoped,
// and are created implicitly when an activity references an unknown
// symbol. Classification fields hold JSON-encoded strings.
type Asset struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Symbol        string    `gorm:"size:20;not null;uniqueIndex:idx_assets_symbol_source" json:"symbol"`
	SymbolMapping string    `gorm:"size:20" json:"symbol_mapping"`
	Name          string    `gorm:"size:255" json:"name"`
	AssetType     string    `gorm:"size:50;index" json:"asset_type"`
	AssetClass    string    `gorm:"size:100" json:"asset_class"`
	AssetSubClass string    `gorm:"size:100" json:"asset_sub_class"`
	DataSource    string    `gorm:"size:50;not null;default:MANUAL;uniqueIndex:idx_assets_symbol_source" json:"data_source"`
	ISIN          string    `gorm:"size:12" json:"isin"`
	Currency      string    `gorm:"size:3;not null;default:USD" json:"currency"`
	Countries     string    `json:"countries"`
	Sectors       string    `json:"sectors"`
	Categories    string    `json:"categories"`
	Classes       string    `json:"classes"`
	Attributes    string    `json:"attributes"`
	Notes         string    `json:"notes"`
	URL           string    `gorm:"size:500" json:"url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (a *Asset) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Activity is a single account transaction: a trade, a cash movement or
// an income event. Monetary fields use decimal(20,8).
type Activity struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	UserID       string          `gorm:"size:36;not null;index" json:"user_id"`
	AccountID    string          `gorm:"size:36;not null;index" json:"account_id"`
	AssetID      string          `gorm:"size:36;not null;index" json:"asset_id"`
	ActivityType string          `gorm:"size:50;not null;index" json:"activity_type"`
	ActivityDate time.Time       `gorm:"not null;index" json:"activity_date"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"unit_price"`
	Fee          decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"fee"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"amount"`
	Currency     string          `gorm:"size:3;not null;default:USD" json:"currency"`
	IsDraft      bool            `gorm:"not null;default:false" json:"is_draft"`
	Comment      string          `json:"comment"`
	Description  string          `json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (a *Activity) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Quote is a daily OHLCV price bar for a symbol.
type Quote struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Symbol        string          `gorm:"size:20;not null;uniqueIndex:idx_quotes_symbol_ts_source" json:"symbol"`
	Timestamp     time.Time       `gorm:"not null;uniqueIndex:idx_quotes_symbol_ts_source" json:"timestamp"`
	OpenPrice     decimal.Decimal `gorm:"type:decimal(20,8)" json:"open_price"`
	HighPrice     decimal.Decimal `gorm:"type:decimal(20,8)" json:"high_price"`
	LowPrice      decimal.Decimal `gorm:"type:decimal(20,8)" json:"low_price"`
	ClosePrice    decimal.Decimal `gorm:"type:decimal(20,8)" json:"close_price"`
	AdjClosePrice decimal.Decimal `gorm:"type:decimal(20,8)" json:"adj_close_price"`
	Volume        int64           `json:"volume"`
	Currency      string          `gorm:"size:3;not null;default:USD" json:"currency"`
	DataSource    string          `gorm:"size:50;not null;default:MANUAL;uniqueIndex:idx_quotes_symbol_ts_source" json:"data_source"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (q *Quote) BeforeCreate(_ *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// Goal is a savings target funded by percentage allocations of accounts.
type Goal struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	UserID       string          `gorm:"size:36;not null;index" json:"user_id"`
	Title        string          `gorm:"size:255;not null" json:"title"`
	Description  string          `json:"description"`
	TargetAmount decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"target_amount"`
	IsAchieved   bool            `gorm:"not null;default:false" json:"is_achieved"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Allocations []GoalAllocation `gorm:"foreignKey:GoalID" json:"allocations,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (g *Goal) BeforeCreate(_ *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// GoalAllocation assigns a percentage of an account's value to a goal.
type GoalAllocation struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	GoalID            string    `gorm:"size:36;not null;index" json:"goal_id"`
	AccountID         string    `gorm:"size:36;not null;index" json:"account_id"`
	PercentAllocation int       `gorm:"not null" json:"percent_allocation"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (GoalAllocation) TableName() string { return "goals_allocation" }

// BeforeCreate assigns a UUID primary key when none is set.
func (a *GoalAllocation) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ContributionLimit caps yearly deposits into a group of accounts.
// AccountIDs holds a JSON-encoded array of account IDs.
type ContributionLimit struct {
	ID               string          `gorm:"primaryKey;size:36" json:"id"`
	UserID           string          `gorm:"size:36;not null;uniqueIndex:idx_limits_user_group_year" json:"user_id"`
	GroupName        string          `gorm:"size:255;not null;uniqueIndex:idx_limits_user_group_year" json:"group_name"`
	ContributionYear int             `gorm:"not null;uniqueIndex:idx_limits_user_group_year" json:"contribution_year"`
	LimitAmount      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"limit_amount"`
	AccountIDs       string          `json:"account_ids"`
	StartDate        *time.Time      `json:"start_date"`
	EndDate          *time.Time      `json:"end_date"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (l *ContributionLimit) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// ExchangeRate is a manually managed currency conversion rate.
type ExchangeRate struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	FromCurrency string          `gorm:"size:3;not null;uniqueIndex:idx_rates_pair_ts" json:"from_currency"`
	ToCurrency   string          `gorm:"size:3;not null;uniqueIndex:idx_rates_pair_ts" json:"to_currency"`
	Rate         decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"rate"`
	Timestamp    time.Time       `gorm:"not null;uniqueIndex:idx_rates_pair_ts" json:"timestamp"`
	DataSource   string          `gorm:"size:32;not null;default:MANUAL" json:"data_source"`
	CreatedAt    time.Time       `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (r *ExchangeRate) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// DailyAccountValuation is a per-account snapshot written by portfolio
// recalculation, one row per (account, day).
type DailyAccountValuation struct {
	ID                    string          `gorm:"primaryKey;size:36" json:"id"`
	AccountID             string          `gorm:"size:36;not null;uniqueIndex:idx_valuation_account_date" json:"account_id"`
	ValuationDate         time.Time       `gorm:"type:date;not null;uniqueIndex:idx_valuation_account_date" json:"valuation_date"`
	AccountCurrency       string          `gorm:"size:3;not null" json:"account_currency"`
	BaseCurrency          string          `gorm:"size:3;not null" json:"base_currency"`
	FxRateToBase          decimal.Decimal `gorm:"type:decimal(20,8);not null;default:1" json:"fx_rate_to_base"`
	CashBalance           decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"cash_balance"`
	InvestmentMarketValue decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"investment_market_value"`
	TotalValue            decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"total_value"`
	CostBasis             decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"cost_basis"`
	NetContribution       decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"net_contribution"`
	CalculatedAt          time.Time       `gorm:"not null" json:"calculated_at"`
	CreatedAt             time.Time       `json:"created_at"`
}

// TableName keeps the historical table name.
func (DailyAccountValuation) TableName() string { return "daily_account_valuation" }

// BeforeCreate assigns a UUID primary key when none is set.
func (v *DailyAccountValuation) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
