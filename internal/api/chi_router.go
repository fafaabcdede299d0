// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wealthvault/server/internal/auth"
	"github.com/wealthvault/server/internal/config"
	"github.com/wealthvault/server/internal/middleware"
)

// Router wires handlers, auth and middleware into a Chi mux.
type Router struct {
	handler *Handler
	authMW  *auth.Middleware
	chi     *ChiMiddleware
}

// NewRouter creates a Router from the application configuration.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	if cfg.Security.RateLimitReqs > 0 {
		mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	}
	if cfg.Security.RateLimitWindow > 0 {
		mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	}
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	return &Router{
		handler: handler,
		authMW:  auth.NewMiddleware(handler.jwt, handler.db),
		chi:     NewChiMiddleware(mwConfig),
	}
}

// SetupChi builds the full route tree.
func (rt *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := rt.handler
	m := rt.chi

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(m.CORS())
	r.Use(RequestLogger())

	// Unauthenticated surface: health probe and Prometheus scrape.
	r.Group(func(r chi.Router) {
		r.Use(m.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/api/v1/health", h.Health)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(m.RateLimitAuth())
		r.Use(APISecurityHeaders())

		r.Post("/register", h.Register)
		r.With(m.RateLimitLogin()).Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(rt.authMW.RequireAuth)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})
	})

	// Everything below requires a valid access token.
	r.Group(func(r chi.Router) {
		r.Use(m.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(rt.authMW.RequireAuth)

		r.Route("/api/v1/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.CreateAccount)
			r.Get("/summary", h.AccountsSummary)
			r.Get("/{id}", h.GetAccount)
			r.Put("/{id}", h.UpdateAccount)
			r.Delete("/{id}", h.DeleteAccount)
		})

		r.Route("/api/v1/activities", func(r chi.Router) {
			r.Get("/", h.ListActivities)
			r.Post("/", h.CreateActivity)
			r.Get("/types", h.ActivityTypes)
			r.Post("/import", h.ImportActivities)
			r.Get("/{id}", h.GetActivity)
			r.Put("/{id}", h.UpdateActivity)
			r.Delete("/{id}", h.DeleteActivity)
		})

		r.Route("/api/v1/assets", func(r chi.Router) {
			r.Get("/", h.ListAssets)
			r.Get("/search", h.SearchAssets)
			r.Get("/types", h.AssetTypes)
			r.Get("/data-sources", h.AssetDataSources)
			r.Get("/{id}", h.GetAsset)
			r.Put("/{id}", h.UpdateAsset)
			r.Put("/{id}/data-source", h.UpdateAssetDataSource)
			r.Get("/{id}/history", h.AssetHistory)
			r.Get("/{id}/activities", h.AssetActivities)
		})

		r.Route("/api/v1/market-data", func(r chi.Router) {
			r.Get("/providers", h.MarketDataProviders)
			r.Get("/search", h.SearchMarketData)
			r.With(m.RateLimitCustom(RateLimitSync)).Post("/sync", h.SyncQuotes)
			r.Get("/quotes/latest", h.LatestQuotes)
			r.Get("/quotes/historical", h.HistoricalQuotes)
			r.Get("/quotes/{symbol}/history", h.QuoteHistory)
			r.Put("/quotes/{id}", h.UpdateQuote)
			r.Delete("/quotes/{id}", h.DeleteQuote)
		})

		r.Route("/api/v1/portfolio", func(r chi.Router) {
			r.Get("/summary", h.PortfolioSummary)
			r.Get("/holdings", h.PortfolioHoldings)
			r.Get("/holdings/{accountId}", h.PortfolioAccountHoldings)
			r.Get("/performance", h.PortfolioPerformance)
			r.Get("/income", h.PortfolioIncome)
			r.Get("/valuations", h.PortfolioValuations)
			r.With(m.RateLimitCustom(RateLimitSync)).Post("/recalculate", h.PortfolioRecalculate)
		})

		r.Route("/api/v1/goals", func(r chi.Router) {
			r.Get("/", h.ListGoals)
			r.Post("/", h.CreateGoal)
			r.Get("/summary", h.GoalsSummary)
			r.Get("/{id}", h.GetGoal)
			r.Put("/{id}", h.UpdateGoal)
			r.Delete("/{id}", h.DeleteGoal)
			r.Get("/{id}/progress", h.GoalProgress)
			r.Put("/{id}/allocations", h.UpdateGoalAllocations)
		})

		r.Route("/api/v1/limits", func(r chi.Router) {
			r.Get("/", h.ListLimits)
			r.Post("/", h.CreateLimit)
			r.Get("/summary", h.LimitsSummary)
			r.Get("/groups", h.LimitGroups)
			r.Get("/groups/{group_name}/accounts", h.LimitGroupAccounts)
			r.Get("/{id}", h.GetLimit)
			r.Put("/{id}", h.UpdateLimit)
			r.Delete("/{id}", h.DeleteLimit)
			r.Get("/{id}/deposits", h.LimitDeposits)
		})

		r.Route("/api/v1/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
			r.Get("/currencies", h.ListCurrencies)
			r.Get("/themes", h.ListThemes)
			r.Get("/date-formats", h.ListDateFormats)
			r.Get("/number-formats", h.ListNumberFormats)
			r.Get("/exchange-rates", h.ListExchangeRates)
			r.Post("/exchange-rates", h.UpsertExchangeRate)
			r.Put("/exchange-rates/{id}", h.UpdateExchangeRate)
			r.Delete("/exchange-rates/{id}", h.DeleteExchangeRate)
		})

		r.Route("/api/v1/utilities", func(r chi.Router) {
			r.Use(m.RateLimitCustom(RateLimitExport))
			r.Post("/backup", h.CreateBackup)
			r.Post("/restore", h.RestoreBackup)
			r.Get("/export", h.ExportActivities)
			r.Get("/stats", h.Stats)
			r.Get("/health", h.Health)
		})
	})

	return r
}
