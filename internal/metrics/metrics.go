// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Database query performance
// - Authentication outcomes
// - Portfolio valuation runs
// - Market data quote syncs

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"operation", "table"},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Current number of database connections in use",
		},
	)

	// Authentication Metrics
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"operation", "result"}, // operation: "login", "register", "refresh"
	)

	AuthActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auth_active_sessions",
			Help: "Current number of live refresh token sessions",
		},
	)

	// Portfolio Valuation Metrics
	ValuationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_valuation_duration_seconds",
			Help:    "Duration of portfolio valuation runs in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	ValuationAccountsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_valuation_accounts_processed_total",
			Help: "Total number of accounts processed by valuation runs",
		},
	)

	ValuationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_valuation_errors_total",
			Help: "Total number of valuation run errors",
		},
	)

	ValuationLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_valuation_last_success_timestamp",
			Help: "Unix timestamp of the last successful valuation run",
		},
	)

	// Market Data Metrics
	QuoteSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "market_quote_sync_duration_seconds",
			Help:    "Duration of quote sync operations in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	QuotesUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "market_quotes_upserted_total",
			Help: "Total number of quotes written during sync operations",
		},
	)

	QuoteSyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_quote_sync_errors_total",
			Help: "Total number of quote sync errors",
		},
		[]string{"data_source"},
	)

	// Activity Import Metrics
	ImportBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "activity_import_batch_size",
			Help:    "Number of activities per bulk import request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	ImportRejectedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "activity_import_rejected_rows_total",
			Help: "Total number of activity rows rejected during bulk import",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAuthAttempt records the outcome of a login, register or refresh
func RecordAuthAttempt(operation string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	AuthAttempts.WithLabelValues(operation, result).Inc()
}

// RecordValuationRun records a portfolio valuation run
func RecordValuationRun(duration time.Duration, accounts int, err error) {
	ValuationDuration.Observe(duration.Seconds())
	ValuationAccountsProcessed.Add(float64(accounts))
	if err != nil {
		ValuationErrors.Inc()
	} else {
		ValuationLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordQuoteSync records a market data sync operation
func RecordQuoteSync(dataSource string, duration time.Duration, upserted int, err error) {
	QuoteSyncDuration.Observe(duration.Seconds())
	QuotesUpserted.Add(float64(upserted))
	if err != nil {
		QuoteSyncErrors.WithLabelValues(dataSource).Inc()
	}
}

// RecordImportBatch records a bulk activity import
func RecordImportBatch(total, rejected int) {
	ImportBatchSize.Observe(float64(total))
	ImportRejectedRows.Add(float64(rejected))
}
