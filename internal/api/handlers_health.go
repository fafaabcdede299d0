// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"net/http"
	"time"

	"github.com/wealthvault/server/internal/metrics"
)

type healthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}

// Health handles GET /api/v1/health. Reports degraded with a 503 when
// the database does not answer a ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime)
	metrics.AppUptime.Set(uptime.Seconds())

	status := healthStatus{
		Status:   "ok",
		Version:  Version,
		Uptime:   uptime.Round(time.Second).String(),
		Database: "ok",
	}

	httpStatus := http.StatusOK
	if sqlDB, err := h.db.WithContext(r.Context()).DB(); err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
		httpStatus = http.StatusServiceUnavailable
	} else if err := sqlDB.PingContext(r.Context()); err != nil {
		status.Status = "degraded"
		status.Database = "unreachable"
		httpStatus = http.StatusServiceUnavailable
	}

	respondData(w, httpStatus, status)
}
