// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wealthvault/server/internal/models"
)

// collectBackup assembles a full export of the user's data.
func (h *Handler) collectBackup(r *http.Request, userID string) (*models.BackupDocument, error) {
	ctx := r.Context()
	doc := &models.BackupDocument{
		Version:   models.BackupVersion,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&doc.Accounts).Error; err != nil {
		return nil, err
	}
	if err := h.db.WithContext(ctx).Where("user_id = ?", userID).Order("activity_date ASC, created_at ASC").Find(&doc.Activities).Error; err != nil {
		return nil, err
	}
	if err := h.db.WithContext(ctx).Preload("Allocations").Where("user_id = ?", userID).Order("title ASC").Find(&doc.Goals).Error; err != nil {
		return nil, err
	}
	if err := h.db.WithContext(ctx).Where("user_id = ?", userID).Order("contribution_year DESC, group_name ASC").Find(&doc.Limits).Error; err != nil {
		return nil, err
	}

	var settings models.UserSettings
	if err := h.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error; err == nil {
		doc.Settings = &settings
	}

	// Assets are global; only the ones the user's activities reference
	// are included so the restore can resolve every activity row.
	assetIDs := make(map[string]struct{})
	for i := range doc.Activities {
		assetIDs[doc.Activities[i].AssetID] = struct{}{}
	}
	if len(assetIDs) > 0 {
		ids := make([]string, 0, len(assetIDs))
		for id := range assetIDs {
			ids = append(ids, id)
		}
		if err := h.db.WithContext(ctx).Where("id IN ?", ids).Order("symbol ASC").Find(&doc.Assets).Error; err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// CreateBackup handles POST /api/v1/utilities/backup.
func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	doc, err := h.collectBackup(r, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create backup", err)
		return
	}

	respondData(w, http.StatusOK, doc)
}

// RestoreBackup handles POST /api/v1/utilities/restore. The restore is
// all-or-nothing: the user's existing data is replaced inside one
// transaction, and a version mismatch aborts before anything is touched.
func (h *Handler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var doc models.BackupDocument
	if !decodeAndValidate(w, r, &doc) {
		return
	}
	if doc.Version != models.BackupVersion {
		respondError(w, http.StatusBadRequest, ErrCodeRestoreVersion,
			fmt.Sprintf("Unsupported backup version %d, expected %d", doc.Version, models.BackupVersion), nil)
		return
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		goalIDs := tx.Model(&models.Goal{}).Select("id").Where("user_id = ?", user.ID)
		if err := tx.Where("goal_id IN (?)", goalIDs).Delete(&models.GoalAllocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Goal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Account{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.ContributionLimit{}).Error; err != nil {
			return err
		}

		for i := range doc.Assets {
			asset := doc.Assets[i]
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoNothing: true,
			}).Create(&asset).Error
			if err != nil {
				return err
			}
		}

		for i := range doc.Accounts {
			account := doc.Accounts[i]
			account.UserID = user.ID
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
		}
		for i := range doc.Activities {
			activity := doc.Activities[i]
			activity.UserID = user.ID
			if err := tx.Create(&activity).Error; err != nil {
				return err
			}
		}
		for i := range doc.Goals {
			goal := doc.Goals[i]
			goal.UserID = user.ID
			if err := tx.Create(&goal).Error; err != nil {
				return err
			}
		}
		for i := range doc.Limits {
			limit := doc.Limits[i]
			limit.UserID = user.ID
			if err := tx.Create(&limit).Error; err != nil {
				return err
			}
		}

		if doc.Settings != nil {
			settings := *doc.Settings
			settings.UserID = user.ID
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"theme", "font_family", "base_currency", "privacy_mode",
					"date_format", "number_format", "timezone", "onboarding_completed",
				}),
			}).Create(&settings).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to restore backup", err)
		return
	}

	respondMessage(w, http.StatusOK, "Backup restored")
}

var exportColumns = []string{
	"date", "account", "symbol", "activity_type", "quantity",
	"unit_price", "fee", "amount", "currency", "comment",
}

// ExportActivities handles GET /api/v1/utilities/export. Streams the
// user's activities as CSV, or as JSON with ?format=json.
func (h *Handler) ExportActivities(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	ctx := r.Context()

	var activities []models.Activity
	q := h.db.WithContext(ctx).Where("user_id = ? AND is_draft = ?", user.ID, false)
	if accountID := r.URL.Query().Get("account_id"); accountID != "" {
		q = q.Where("account_id = ?", accountID)
	}
	if err := q.Order("activity_date ASC, created_at ASC").Find(&activities).Error; err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to export activities", err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		respondData(w, http.StatusOK, activities)
		return
	}

	accountNames := make(map[string]string)
	var accounts []models.Account
	if err := h.db.WithContext(ctx).Where("user_id = ?", user.ID).Find(&accounts).Error; err == nil {
		for i := range accounts {
			accountNames[accounts[i].ID] = accounts[i].Name
		}
	}

	assetSymbols := make(map[string]string)
	var assets []models.Asset
	if err := h.db.WithContext(ctx).Find(&assets).Error; err == nil {
		for i := range assets {
			assetSymbols[assets[i].ID] = assets[i].Symbol
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=activities-%s.csv", time.Now().UTC().Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)

	var b strings.Builder
	b.WriteString(strings.Join(exportColumns, ","))
	b.WriteByte('\n')
	for i := range activities {
		a := &activities[i]
		row := []string{
			a.ActivityDate.Format("2006-01-02"),
			escapeCSV(accountNames[a.AccountID]),
			escapeCSV(assetSymbols[a.AssetID]),
			a.ActivityType,
			a.Quantity.String(),
			a.UnitPrice.String(),
			a.Fee.String(),
			a.Amount.String(),
			a.Currency,
			escapeCSV(a.Comment),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	_, _ = w.Write([]byte(b.String()))
}

// Stats handles GET /api/v1/utilities/stats. Row counts for the user's
// data, useful for dashboards and sanity checks after a restore.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	ctx := r.Context()
	counts := map[string]int64{}

	type scope struct {
		name  string
		model interface{}
	}
	for _, s := range []scope{
		{"accounts", &models.Account{}},
		{"activities", &models.Activity{}},
		{"goals", &models.Goal{}},
		{"contribution_limits", &models.ContributionLimit{}},
		{"sessions", &models.Session{}},
	} {
		var n int64
		if err := h.db.WithContext(ctx).Model(s.model).Where("user_id = ?", user.ID).Count(&n).Error; err != nil {
			respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute stats", err)
			return
		}
		counts[s.name] = n
	}

	var assetCount int64
	err := h.db.WithContext(ctx).Model(&models.Activity{}).
		Where("user_id = ?", user.ID).
		Distinct("asset_id").
		Count(&assetCount).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute stats", err)
		return
	}
	counts["assets_referenced"] = assetCount

	var valuationCount int64
	accountIDs := h.db.WithContext(ctx).Model(&models.Account{}).Select("id").Where("user_id = ?", user.ID)
	err = h.db.WithContext(ctx).Model(&models.DailyAccountValuation{}).
		Where("account_id IN (?)", accountIDs).
		Count(&valuationCount).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to compute stats", err)
		return
	}
	counts["valuations"] = valuationCount

	respondData(w, http.StatusOK, counts)
}
