package analytics

import (
	"context"
	"time"

	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 90

	defaultAbandonCutoff = 24 * time.Hour
	defaultTopLimit      = 10
	maxTopLimit          = 50

	dayFormat = "2006-01-02"
)

// Service computes the admin dashboard aggregates.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	Timeseries(ctx context.Context, days int) (*TimeseriesDTO, error)
	AbandonedCheckouts(ctx context.Context, olderThan time.Duration) ([]AbandonedCheckoutDTO, error)
	TopProducts(ctx context.Context, limit int) ([]TopProductDTO, error)
}

// ServiceParams bundles the analytics service dependencies.
type ServiceParams struct {
	Repo *Repository

	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs the analytics service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "analytics repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	revenue, err := s.repo.RevenueCents(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing revenue")
	}
	orders, err := s.repo.CountOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}
	products, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
	}
	customers, err := s.repo.CountCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting customers")
	}

	return &DashboardStats{
		RevenueCents:  revenue,
		RevenueUSD:    centsToUSD(revenue),
		OrderCount:    orders,
		ProductCount:  products,
		CustomerCount: customers,
	}, nil
}

// Timeseries buckets the last N days of orders and signups per calendar day
// in UTC. The window always contains exactly N buckets, today included.
func (s *service) Timeseries(ctx context.Context, days int) (*TimeseriesDTO, error) {
	if days <= 0 {
		days = defaultWindowDays
	}
	if days > maxWindowDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "window too large")
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	windowStart := today.AddDate(0, 0, -(days - 1))

	orders, err := s.repo.OrdersSince(ctx, windowStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order window")
	}
	signups, err := s.repo.CustomerSignupsSince(ctx, windowStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading signup window")
	}

	byDay := make(map[string]*DayBucket, days)
	buckets := make([]DayBucket, 0, days)
	for i := 0; i < days; i++ {
		day := windowStart.AddDate(0, 0, i).Format(dayFormat)
		buckets = append(buckets, DayBucket{Day: day})
		byDay[day] = &buckets[len(buckets)-1]
	}

	for _, order := range orders {
		bucket, ok := byDay[order.CreatedAt.UTC().Format(dayFormat)]
		if !ok {
			continue
		}
		bucket.OrderCount++
		if order.Status.IsRevenue() {
			bucket.RevenueCents += order.TotalCents
		}
	}
	for _, stamp := range signups {
		if bucket, ok := byDay[stamp.UTC().Format(dayFormat)]; ok {
			bucket.NewCustomers++
		}
	}

	return &TimeseriesDTO{Days: days, Buckets: buckets}, nil
}

// AbandonedCheckouts lists pending orders older than the cutoff. A zero or
// negative cutoff falls back to one day.
func (s *service) AbandonedCheckouts(ctx context.Context, olderThan time.Duration) ([]AbandonedCheckoutDTO, error) {
	if olderThan <= 0 {
		olderThan = defaultAbandonCutoff
	}

	rows, err := s.repo.AbandonedOrders(ctx, s.now().UTC().Add(-olderThan))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading abandoned orders")
	}

	out := make([]AbandonedCheckoutDTO, 0, len(rows))
	for i := range rows {
		dto := AbandonedCheckoutDTO{
			OrderID:    rows[i].ID,
			TotalCents: rows[i].TotalCents,
			CreatedAt:  rows[i].CreatedAt,
		}
		if rows[i].User != nil {
			dto.CustomerName = rows[i].User.Name
			dto.CustomerEmail = rows[i].User.Email
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s *service) TopProducts(ctx context.Context, limit int) ([]TopProductDTO, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	rows, err := s.repo.TopProducts(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating top products")
	}

	out := make([]TopProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, TopProductDTO{
			ProductID:    row.ProductID,
			Name:         row.Name,
			UnitsSold:    row.UnitsSold,
			RevenueCents: row.RevenueCents,
			RevenueUSD:   centsToUSD(row.RevenueCents),
		})
	}
	return out, nil
}
