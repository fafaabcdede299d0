// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

// Machine-readable error codes returned in the error envelope. Auth
// middleware codes (TOKEN_EXPIRED etc.) live in the auth package.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidRefresh     = "INVALID_REFRESH_TOKEN"
	ErrCodeAccountActivities  = "ACCOUNT_HAS_ACTIVITIES"
	ErrCodeAllocationBounds   = "ALLOCATION_EXCEEDS_LIMIT"
	ErrCodeRestoreVersion     = "UNSUPPORTED_BACKUP_VERSION"
)
