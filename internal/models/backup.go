// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package models

import "time"

// BackupVersion is the current backup document format version.
const BackupVersion = 1

// BackupDocument is a full portable export of one user's data, produced
// by POST /utilities/backup and consumed by POST /utilities/restore.
// Assets are included so a restore into an empty database can resolve
// activity references.
type BackupDocument struct {
	Version   int       `json:"version" validate:"required,min=1"`
	CreatedAt time.Time `json:"created_at"`

	Accounts    []Account           `json:"accounts"`
	Assets      []Asset             `json:"assets"`
	Activities  []Activity          `json:"activities"`
	Goals       []Goal              `json:"goals"`
	Limits      []ContributionLimit `json:"contribution_limits"`
	Settings    *UserSettings       `json:"settings"`
}
