// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package database

import (
	"context"
	"errors"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/wealthvault/server/internal/logging"
)

// slowQueryThreshold marks queries worth a warning.
const slowQueryThreshold = 200 * time.Millisecond

// gormLogger bridges GORM's logger interface to the global zerolog
// logger. Record-not-found errors are not logged; they are ordinary
// control flow for the handlers.
type gormLogger struct {
	logQueries bool
}

func newGormLogger(logQueries bool) gormlogger.Interface {
	return &gormLogger{logQueries: logQueries}
}

func (l *gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	logging.Info().Str("component", "gorm").Msgf(msg, args...)
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	logging.Warn().Str("component", "gorm").Msgf(msg, args...)
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	logging.Error().Str("component", "gorm").Msgf(msg, args...)
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound):
		logging.Error().
			Err(err).
			Str("component", "gorm").
			Str("sql", sql).
			Dur("elapsed", elapsed).
			Msg("Query failed")
	case elapsed > slowQueryThreshold:
		logging.Warn().
			Str("component", "gorm").
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("Slow query")
	case l.logQueries:
		logging.Debug().
			Str("component", "gorm").
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("Query")
	}
}
