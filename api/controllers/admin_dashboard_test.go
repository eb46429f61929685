package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/furnora-labs/furnora-backend/internal/analytics"
	"github.com/furnora-labs/furnora-backend/pkg/config"
)

type stubAnalyticsService struct {
	stats     *analytics.DashboardStats
	series    *analytics.TimeseriesDTO
	abandoned []analytics.AbandonedCheckoutDTO
	top       []analytics.TopProductDTO
	err       error

	lastDays      int
	lastOlderThan time.Duration
	lastLimit     int
}

func (s *stubAnalyticsService) Dashboard(ctx context.Context) (*analytics.DashboardStats, error) {
	return s.stats, s.err
}

func (s *stubAnalyticsService) Timeseries(ctx context.Context, days int) (*analytics.TimeseriesDTO, error) {
	s.lastDays = days
	return s.series, s.err
}

func (s *stubAnalyticsService) AbandonedCheckouts(ctx context.Context, olderThan time.Duration) ([]analytics.AbandonedCheckoutDTO, error) {
	s.lastOlderThan = olderThan
	return s.abandoned, s.err
}

func (s *stubAnalyticsService) TopProducts(ctx context.Context, limit int) ([]analytics.TopProductDTO, error) {
	s.lastLimit = limit
	return s.top, s.err
}

func TestDashboardStatsSuccess(t *testing.T) {
	svc := &stubAnalyticsService{stats: &analytics.DashboardStats{RevenueCents: 124500, RevenueUSD: "1245.00", OrderCount: 8}}
	handler := DashboardStats(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard/stats", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data analytics.DashboardStats `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RevenueUSD != "1245.00" {
		t.Fatalf("unexpected revenue: %q", envelope.Data.RevenueUSD)
	}
}

func TestDashboardTimeseriesDefaultsToConfigWindow(t *testing.T) {
	svc := &stubAnalyticsService{series: &analytics.TimeseriesDTO{Days: 30}}
	cfg := config.AnalyticsConfig{WindowDays: 30}
	handler := DashboardTimeseries(svc, cfg, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard/timeseries", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastDays != 30 {
		t.Fatalf("expected default window of 30 days, got %d", svc.lastDays)
	}
}

func TestDashboardTimeseriesRejectsOversizedWindow(t *testing.T) {
	handler := DashboardTimeseries(&stubAnalyticsService{}, config.AnalyticsConfig{WindowDays: 30}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard/timeseries?days=365", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDashboardAbandonedParsesCutoff(t *testing.T) {
	svc := &stubAnalyticsService{}
	cfg := config.AnalyticsConfig{AbandonedAfter: 24 * time.Hour}
	handler := DashboardAbandoned(svc, cfg, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard/abandoned?older_than=48h", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastOlderThan != 48*time.Hour {
		t.Fatalf("expected 48h cutoff, got %s", svc.lastOlderThan)
	}
}

func TestDashboardAbandonedRejectsBadDuration(t *testing.T) {
	handler := DashboardAbandoned(&stubAnalyticsService{}, config.AnalyticsConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard/abandoned?older_than=yesterday", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDashboardTopProductsForwardsLimit(t *testing.T) {
	svc := &stubAnalyticsService{top: []analytics.TopProductDTO{}}
	handler := DashboardTopProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard/top-products?limit=5", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastLimit != 5 {
		t.Fatalf("expected limit 5, got %d", svc.lastLimit)
	}
}
