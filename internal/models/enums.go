// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package models

// Activity types accepted by the activities endpoints.
const (
	ActivityBuy          = "BUY"
	ActivitySell         = "SELL"
	ActivityDividend     = "DIVIDEND"
	ActivityInterest     = "INTEREST"
	ActivityDeposit      = "DEPOSIT"
	ActivityWithdrawal   = "WITHDRAWAL"
	ActivityTransferIn   = "TRANSFER_IN"
	ActivityTransferOut  = "TRANSFER_OUT"
	ActivityFee          = "FEE"
	ActivityTax          = "TAX"
	ActivitySplit        = "SPLIT"
	ActivityContribution = "CONTRIBUTION"
)

// ActivityTypes is the canonical ordered list of activity types.
var ActivityTypes = []string{
	ActivityBuy,
	ActivitySell,
	ActivityDividend,
	ActivityInterest,
	ActivityDeposit,
	ActivityWithdrawal,
	ActivityTransferIn,
	ActivityTransferOut,
	ActivityFee,
	ActivityTax,
	ActivitySplit,
	ActivityContribution,
}

// ValidActivityType reports whether t is a known activity type.
func ValidActivityType(t string) bool {
	for _, known := range ActivityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DepositActivityTypes are the types counted against contribution limits.
var DepositActivityTypes = []string{ActivityBuy, ActivityDeposit, ActivityContribution}

// AssetTypeCash marks the synthetic assets that represent account cash.
// Cash activities reference a per-currency asset named $CASH-<currency>
// so every activity row satisfies the asset foreign key.
const AssetTypeCash = "CASH"

// CashSymbol returns the synthetic asset symbol for a currency.
func CashSymbol(currency string) string {
	return "$CASH-" + currency
}

// Currency describes a supported currency for the settings enumeration.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// SupportedCurrencies lists the currencies offered in settings.
var SupportedCurrencies = []Currency{
	{Code: "USD", Name: "US Dollar", Symbol: "$"},
	{Code: "EUR", Name: "Euro", Symbol: "€"},
	{Code: "GBP", Name: "British Pound", Symbol: "£"},
	{Code: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
	{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF"},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
	{Code: "NZD", Name: "New Zealand Dollar", Symbol: "NZ$"},
	{Code: "SEK", Name: "Swedish Krona", Symbol: "kr"},
	{Code: "NOK", Name: "Norwegian Krone", Symbol: "kr"},
	{Code: "DKK", Name: "Danish Krone", Symbol: "kr"},
	{Code: "PLN", Name: "Polish Złoty", Symbol: "zł"},
	{Code: "CZK", Name: "Czech Koruna", Symbol: "Kč"},
	{Code: "HUF", Name: "Hungarian Forint", Symbol: "Ft"},
	{Code: "TRY", Name: "Turkish Lira", Symbol: "₺"},
	{Code: "BRL", Name: "Brazilian Real", Symbol: "R$"},
	{Code: "MXN", Name: "Mexican Peso", Symbol: "$"},
	{Code: "INR", Name: "Indian Rupee", Symbol: "₹"},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
	{Code: "HKD", Name: "Hong Kong Dollar", Symbol: "HK$"},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$"},
	{Code: "KRW", Name: "South Korean Won", Symbol: "₩"},
	{Code: "THB", Name: "Thai Baht", Symbol: "฿"},
}

// Theme describes a UI theme option.
type Theme struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SupportedThemes lists the UI themes offered in settings.
var SupportedThemes = []Theme{
	{ID: "light", Name: "Light", Description: "Light theme with white background"},
	{ID: "dark", Name: "Dark", Description: "Dark theme with black background"},
	{ID: "system", Name: "System", Description: "Follows system preference"},
}

// DateFormat describes a supported date display format.
type DateFormat struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Example string `json:"example"`
}

// SupportedDateFormats lists the date formats offered in settings.
var SupportedDateFormats = []DateFormat{
	{ID: "MM/DD/YYYY", Name: "MM/DD/YYYY", Example: "12/25/2023"},
	{ID: "DD/MM/YYYY", Name: "DD/MM/YYYY", Example: "25/12/2023"},
	{ID: "YYYY-MM-DD", Name: "YYYY-MM-DD", Example: "2023-12-25"},
	{ID: "DD-MM-YYYY", Name: "DD-MM-YYYY", Example: "25-12-2023"},
	{ID: "MM-DD-YYYY", Name: "MM-DD-YYYY", Example: "12-25-2023"},
}

// NumberFormat describes a supported number display format.
type NumberFormat struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Example     string `json:"example"`
	Description string `json:"description"`
}

// SupportedNumberFormats lists the number formats offered in settings.
var SupportedNumberFormats = []NumberFormat{
	{ID: "US", Name: "US Format", Example: "1,234.56", Description: "Comma as thousands separator, period as decimal"},
	{ID: "EU", Name: "European Format", Example: "1.234,56", Description: "Period as thousands separator, comma as decimal"},
	{ID: "IN", Name: "Indian Format", Example: "12,34,567.89", Description: "Indian numbering system"},
	{ID: "CH", Name: "Swiss Format", Example: "1'234.56", Description: "Apostrophe as thousands separator"},
}

// MarketDataProvider describes a quote source offered by the market-data
// endpoints. Providers other than manual entry are catalogued but not
// fetched server-side; quote sync accepts client-supplied data.
type MarketDataProvider struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	URL                string   `json:"url,omitempty"`
	IsActive           bool     `json:"is_active"`
	SupportsSearch     bool     `json:"supports_search"`
	SupportsHistorical bool     `json:"supports_historical"`
	SupportsRealtime   bool     `json:"supports_realtime"`
	RateLimit          string   `json:"rate_limit"`
	DataSources        []string `json:"data_sources"`
}

// MarketDataProviders lists the known quote sources.
var MarketDataProviders = []MarketDataProvider{
	{
		ID:                 "yahoo",
		Name:               "Yahoo Finance",
		Description:        "Free market data provider with comprehensive coverage",
		URL:                "https://finance.yahoo.com",
		IsActive:           true,
		SupportsSearch:     true,
		SupportsHistorical: true,
		SupportsRealtime:   false,
		RateLimit:          "1000 requests per hour",
		DataSources:        []string{"STOCKS", "ETFS", "MUTUAL_FUNDS", "CRYPTO", "FOREX"},
	},
	{
		ID:                 "manual",
		Name:               "Manual Entry",
		Description:        "Manual quote entry for custom assets",
		IsActive:           true,
		SupportsSearch:     false,
		SupportsHistorical: false,
		SupportsRealtime:   false,
		RateLimit:          "Unlimited",
		DataSources:        []string{"CUSTOM"},
	},
	{
		ID:                 "alpha_vantage",
		Name:               "Alpha Vantage",
		Description:        "Professional market data API",
		URL:                "https://www.alphavantage.co",
		IsActive:           false,
		SupportsSearch:     true,
		SupportsHistorical: true,
		SupportsRealtime:   true,
		RateLimit:          "500 requests per day (free)",
		DataSources:        []string{"STOCKS", "ETFS", "FOREX", "CRYPTO"},
	},
}
