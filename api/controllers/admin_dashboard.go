package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/furnora-labs/furnora-backend/api/responses"
	"github.com/furnora-labs/furnora-backend/api/validators"
	"github.com/furnora-labs/furnora-backend/internal/analytics"
	"github.com/furnora-labs/furnora-backend/pkg/config"
	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
	"github.com/furnora-labs/furnora-backend/pkg/logger"
)

// DashboardStats returns the headline numbers for the admin dashboard.
func DashboardStats(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		stats, err := svc.Dashboard(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// DashboardTimeseries returns per-day order, revenue, and signup counts over
// a trailing window.
func DashboardTimeseries(svc analytics.Service, cfg config.AnalyticsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		days, err := validators.ParseQueryInt(r, "days", cfg.WindowDays, 1, 90)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		series, err := svc.Timeseries(ctx, days)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, series)
	}
}

// DashboardAbandoned lists pending orders that have sat unpaid past the
// cutoff. The older_than query accepts Go duration strings like "48h".
func DashboardAbandoned(svc analytics.Service, cfg config.AnalyticsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		olderThan := cfg.AbandonedAfter
		if raw := strings.TrimSpace(r.URL.Query().Get("older_than")); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil || parsed <= 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "older_than must be a positive duration"))
				return
			}
			olderThan = parsed
		}

		checkouts, err := svc.AbandonedCheckouts(ctx, olderThan)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"abandoned_checkouts": checkouts})
	}
}

// DashboardTopProducts ranks products by revenue across settled orders.
func DashboardTopProducts(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 50)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		products, err := svc.TopProducts(ctx, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"top_products": products})
	}
}
