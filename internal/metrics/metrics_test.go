// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/accounts", "200"))
	RecordAPIRequest("GET", "/api/v1/accounts", "200", 10*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/accounts", "200"))
	assert.Equal(t, before+1, after)
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	assert.Equal(t, base+1, testutil.ToFloat64(APIActiveRequests))
	TrackActiveRequest(false)
	assert.Equal(t, base, testutil.ToFloat64(APIActiveRequests))
}

func TestRecordDBQueryCountsErrors(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "activities"))
	RecordDBQuery("select", "activities", time.Millisecond, errors.New("boom"))
	RecordDBQuery("select", "activities", time.Millisecond, nil)
	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("select", "activities"))
	assert.Equal(t, before+1, after)
}

func TestRecordAuthAttempt(t *testing.T) {
	before := testutil.ToFloat64(AuthAttempts.WithLabelValues("login", "failure"))
	RecordAuthAttempt("login", false)
	after := testutil.ToFloat64(AuthAttempts.WithLabelValues("login", "failure"))
	assert.Equal(t, before+1, after)
}

func TestRecordValuationRunSetsLastSuccess(t *testing.T) {
	RecordValuationRun(time.Second, 3, nil)
	assert.InDelta(t, float64(time.Now().Unix()), testutil.ToFloat64(ValuationLastSuccess), 5)

	errsBefore := testutil.ToFloat64(ValuationErrors)
	RecordValuationRun(time.Second, 0, errors.New("boom"))
	assert.Equal(t, errsBefore+1, testutil.ToFloat64(ValuationErrors))
}

func TestRecordQuoteSync(t *testing.T) {
	upsertedBefore := testutil.ToFloat64(QuotesUpserted)
	RecordQuoteSync("yahoo", time.Second, 42, nil)
	assert.Equal(t, upsertedBefore+42, testutil.ToFloat64(QuotesUpserted))

	errsBefore := testutil.ToFloat64(QuoteSyncErrors.WithLabelValues("yahoo"))
	RecordQuoteSync("yahoo", time.Second, 0, errors.New("boom"))
	assert.Equal(t, errsBefore+1, testutil.ToFloat64(QuoteSyncErrors.WithLabelValues("yahoo")))
}
