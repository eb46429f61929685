package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardStats is the admin landing-page summary. Revenue only counts
// orders that were paid, shipped or delivered.
type DashboardStats struct {
	RevenueCents  int64  `json:"revenue_cents"`
	RevenueUSD    string `json:"revenue_usd"`
	OrderCount    int64  `json:"order_count"`
	ProductCount  int64  `json:"product_count"`
	CustomerCount int64  `json:"customer_count"`
}

// DayBucket is one day of the rolling activity window.
type DayBucket struct {
	Day          string `json:"day"`
	OrderCount   int64  `json:"order_count"`
	RevenueCents int64  `json:"revenue_cents"`
	NewCustomers int64  `json:"new_customers"`
}

// TimeseriesDTO is a contiguous run of day buckets, oldest first. Days
// without activity appear as zero buckets.
type TimeseriesDTO struct {
	Days    int         `json:"days"`
	Buckets []DayBucket `json:"buckets"`
}

// AbandonedCheckoutDTO is a pending order that outlived the cutoff without
// being paid or cancelled.
type AbandonedCheckoutDTO struct {
	OrderID       uuid.UUID `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	TotalCents    int       `json:"total_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

// TopProductDTO aggregates order line items per product.
type TopProductDTO struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	UnitsSold    int64     `json:"units_sold"`
	RevenueCents int64     `json:"revenue_cents"`
	RevenueUSD   string    `json:"revenue_usd"`
}

func centsToUSD(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
