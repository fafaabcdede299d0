// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package models

// Request DTOs for every write endpoint. Monetary inputs arrive as JSON
// numbers (float64) and are converted to decimals at the persistence
// boundary. Date fields arrive as strings, RFC3339 or YYYY-MM-DD.

// RegisterRequest creates a new user.
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=128"`
	DisplayName  string `json:"display_name" validate:"omitempty,max=255"`
	BaseCurrency string `json:"base_currency" validate:"omitempty,iso4217"`
}

// LoginRequest authenticates an existing user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest ends one session (token given) or all sessions (empty).
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CreateAccountRequest creates a brokerage or bank account.
type CreateAccountRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	AccountType string  `json:"account_type" validate:"omitempty,max=50"`
	GroupName   string  `json:"group_name" validate:"omitempty,max=100"`
	Currency    string  `json:"currency" validate:"omitempty,iso4217"`
	PlatformID  *string `json:"platform_id" validate:"omitempty,uuid4"`
	IsDefault   bool    `json:"is_default"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateAccountRequest partially updates an account. Nil means unchanged.
type UpdateAccountRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	AccountType *string `json:"account_type" validate:"omitempty,max=50"`
	GroupName   *string `json:"group_name" validate:"omitempty,max=100"`
	Currency    *string `json:"currency" validate:"omitempty,iso4217"`
	PlatformID  *string `json:"platform_id" validate:"omitempty,uuid4"`
	IsDefault   *bool   `json:"is_default"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateAssetRequest partially updates an asset's descriptive fields.
type UpdateAssetRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=255"`
	AssetType     *string `json:"asset_type" validate:"omitempty,max=50"`
	AssetClass    *string `json:"asset_class" validate:"omitempty,max=100"`
	AssetSubClass *string `json:"asset_sub_class" validate:"omitempty,max=100"`
	SymbolMapping *string `json:"symbol_mapping" validate:"omitempty,max=20"`
	ISIN          *string `json:"isin" validate:"omitempty,max=12"`
	Currency      *string `json:"currency" validate:"omitempty,iso4217"`
	Countries     *string `json:"countries"`
	Sectors       *string `json:"sectors"`
	Categories    *string `json:"categories"`
	Classes       *string `json:"classes"`
	Attributes    *string `json:"attributes"`
	Notes         *string `json:"notes"`
	URL           *string `json:"url" validate:"omitempty,max=500"`
}

// UpdateAssetDataSourceRequest switches the quote source of an asset.
type UpdateAssetDataSourceRequest struct {
	DataSource string `json:"data_source" validate:"required,max=50"`
}

// CreateActivityRequest records an account transaction. Either AssetID
// or Symbol must be given; an unknown symbol creates a MANUAL asset.
type CreateActivityRequest struct {
	AccountID    string  `json:"account_id" validate:"required,uuid4"`
	AssetID      string  `json:"asset_id" validate:"omitempty,uuid4"`
	Symbol       string  `json:"symbol" validate:"omitempty,max=20"`
	ActivityType string  `json:"activity_type" validate:"required,oneof=BUY SELL DIVIDEND INTEREST DEPOSIT WITHDRAWAL TRANSFER_IN TRANSFER_OUT FEE TAX SPLIT CONTRIBUTION"`
	ActivityDate string  `json:"activity_date" validate:"required"`
	Quantity     float64 `json:"quantity" validate:"gte=0"`
	UnitPrice    float64 `json:"unit_price" validate:"gte=0"`
	Fee          float64 `json:"fee" validate:"gte=0"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency" validate:"omitempty,iso4217"`
	IsDraft      bool    `json:"is_draft"`
	Comment      string  `json:"comment"`
	Description  string  `json:"description"`
}

// UpdateActivityRequest partially updates an activity.
type UpdateActivityRequest struct {
	AccountID    *string  `json:"account_id" validate:"omitempty,uuid4"`
	AssetID      *string  `json:"asset_id" validate:"omitempty,uuid4"`
	ActivityType *string  `json:"activity_type" validate:"omitempty,oneof=BUY SELL DIVIDEND INTEREST DEPOSIT WITHDRAWAL TRANSFER_IN TRANSFER_OUT FEE TAX SPLIT CONTRIBUTION"`
	ActivityDate *string  `json:"activity_date"`
	Quantity     *float64 `json:"quantity" validate:"omitempty,gte=0"`
	UnitPrice    *float64 `json:"unit_price" validate:"omitempty,gte=0"`
	Fee          *float64 `json:"fee" validate:"omitempty,gte=0"`
	Amount       *float64 `json:"amount"`
	Currency     *string  `json:"currency" validate:"omitempty,iso4217"`
	IsDraft      *bool    `json:"is_draft"`
	Comment      *string  `json:"comment"`
	Description  *string  `json:"description"`
}

// BulkImportRequest inserts a batch of activities. Rows are validated
// individually; the insert is all-or-nothing over the valid set.
type BulkImportRequest struct {
	Activities []CreateActivityRequest `json:"activities" validate:"required,min=1,max=1000,dive"`
}

// QuoteInput is a single price bar submitted through quote sync.
type QuoteInput struct {
	Symbol        string  `json:"symbol" validate:"required,max=20"`
	Timestamp     string  `json:"timestamp" validate:"required"`
	OpenPrice     float64 `json:"open_price" validate:"gte=0"`
	HighPrice     float64 `json:"high_price" validate:"gte=0"`
	LowPrice      float64 `json:"low_price" validate:"gte=0"`
	ClosePrice    float64 `json:"close_price" validate:"required,gt=0"`
	AdjClosePrice float64 `json:"adj_close_price" validate:"gte=0"`
	Volume        int64   `json:"volume" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"omitempty,iso4217"`
	DataSource    string  `json:"data_source" validate:"omitempty,max=50"`
}

// SyncQuotesRequest upserts a batch of quotes.
type SyncQuotesRequest struct {
	Quotes []QuoteInput `json:"quotes" validate:"required,min=1,max=10000,dive"`
}

// UpdateQuoteRequest partially updates a stored quote.
type UpdateQuoteRequest struct {
	OpenPrice     *float64 `json:"open_price" validate:"omitempty,gte=0"`
	HighPrice     *float64 `json:"high_price" validate:"omitempty,gte=0"`
	LowPrice      *float64 `json:"low_price" validate:"omitempty,gte=0"`
	ClosePrice    *float64 `json:"close_price" validate:"omitempty,gt=0"`
	AdjClosePrice *float64 `json:"adj_close_price" validate:"omitempty,gte=0"`
	Volume        *int64   `json:"volume" validate:"omitempty,gte=0"`
	Currency      *string  `json:"currency" validate:"omitempty,iso4217"`
}

// CreateGoalRequest creates a savings goal.
type CreateGoalRequest struct {
	Title        string  `json:"title" validate:"required,min=1,max=255"`
	Description  string  `json:"description"`
	TargetAmount float64 `json:"target_amount" validate:"required,gt=0"`
	IsAchieved   bool    `json:"is_achieved"`
}

// UpdateGoalRequest partially updates a goal.
type UpdateGoalRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description  *string  `json:"description"`
	TargetAmount *float64 `json:"target_amount" validate:"omitempty,gt=0"`
	IsAchieved   *bool    `json:"is_achieved"`
}

// AllocationInput assigns a percentage of an account to a goal.
type AllocationInput struct {
	AccountID         string `json:"account_id" validate:"required,uuid4"`
	PercentAllocation int    `json:"percent_allocation" validate:"required,min=1,max=100"`
}

// UpdateGoalAllocationsRequest replaces a goal's allocation set.
type UpdateGoalAllocationsRequest struct {
	Allocations []AllocationInput `json:"allocations" validate:"dive"`
}

// CreateContributionLimitRequest creates a yearly contribution cap.
type CreateContributionLimitRequest struct {
	GroupName        string   `json:"group_name" validate:"required,min=1,max=255"`
	ContributionYear int      `json:"contribution_year" validate:"required,min=1900,max=2200"`
	LimitAmount      float64  `json:"limit_amount" validate:"required,gt=0"`
	AccountIDs       []string `json:"account_ids" validate:"omitempty,dive,uuid4"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
}

// UpdateContributionLimitRequest partially updates a contribution cap.
type UpdateContributionLimitRequest struct {
	GroupName        *string   `json:"group_name" validate:"omitempty,min=1,max=255"`
	ContributionYear *int      `json:"contribution_year" validate:"omitempty,min=1900,max=2200"`
	LimitAmount      *float64  `json:"limit_amount" validate:"omitempty,gt=0"`
	AccountIDs       *[]string `json:"account_ids" validate:"omitempty,dive,uuid4"`
	StartDate        *string   `json:"start_date"`
	EndDate          *string   `json:"end_date"`
}

// UpdateSettingsRequest partially updates user settings.
type UpdateSettingsRequest struct {
	Theme               *string `json:"theme" validate:"omitempty,oneof=light dark system"`
	FontFamily          *string `json:"font_family" validate:"omitempty,max=100"`
	BaseCurrency        *string `json:"base_currency" validate:"omitempty,iso4217"`
	PrivacyMode         *bool   `json:"privacy_mode"`
	DateFormat          *string `json:"date_format" validate:"omitempty,oneof=MM/DD/YYYY DD/MM/YYYY YYYY-MM-DD DD-MM-YYYY MM-DD-YYYY"`
	NumberFormat        *string `json:"number_format" validate:"omitempty,oneof=US EU IN CH"`
	Timezone            *string `json:"timezone" validate:"omitempty,max=50"`
	OnboardingCompleted *bool   `json:"onboarding_completed"`
}

// ExchangeRateRequest creates or updates a manual exchange rate.
type ExchangeRateRequest struct {
	FromCurrency string  `json:"from_currency" validate:"required,iso4217"`
	ToCurrency   string  `json:"to_currency" validate:"required,iso4217"`
	Rate         float64 `json:"rate" validate:"required,gt=0"`
	Timestamp    string  `json:"timestamp"`
}

// UpdateExchangeRateRequest changes the rate of an existing row.
type UpdateExchangeRateRequest struct {
	Rate       float64 `json:"rate" validate:"required,gt=0"`
	DataSource string  `json:"data_source" validate:"omitempty,max=50"`
}
