package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnora-labs/furnora-backend/pkg/db/models"
	"github.com/furnora-labs/furnora-backend/pkg/enums"
)

// Repository runs the aggregate queries behind the admin dashboard. Numbers
// are computed fresh from the order tables on every call.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RevenueCents sums the totals of every revenue-bearing order.
func (r *Repository) RevenueCents(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status IN ?", enums.RevenueOrderStatuses()).
		Select("COALESCE(SUM(total_cents), 0)").
		Scan(&total).Error
	return total, err
}

func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", enums.UserRoleCustomer).
		Count(&count).Error
	return count, err
}

// orderSample is the slice of an order the timeseries needs. Day bucketing
// happens in Go so the same query runs on postgres and the sqlite test
// driver.
type orderSample struct {
	Status     enums.OrderStatus
	TotalCents int64
	CreatedAt  time.Time
}

// OrdersSince returns status, total and timestamp for every order created at
// or after the given instant.
func (r *Repository) OrdersSince(ctx context.Context, since time.Time) ([]orderSample, error) {
	var rows []orderSample
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status", "total_cents", "created_at").
		Where("created_at >= ?", since).
		Scan(&rows).Error
	return rows, err
}

// CustomerSignupsSince returns the creation timestamps of customer accounts
// registered at or after the given instant.
func (r *Repository) CustomerSignupsSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND created_at >= ?", enums.UserRoleCustomer, since).
		Pluck("created_at", &stamps).Error
	return stamps, err
}

// AbandonedOrders lists pending orders created before the cutoff, oldest
// first, with the owning user preloaded.
func (r *Repository) AbandonedOrders(ctx context.Context, before time.Time) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ? AND created_at < ?", enums.OrderStatusPending, before).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

type topProductRow struct {
	ProductID    uuid.UUID
	Name         string
	UnitsSold    int64
	RevenueCents int64
}

// TopProducts groups revenue-bearing order lines by product and returns the
// biggest earners first.
func (r *Repository) TopProducts(ctx context.Context, limit int) ([]topProductRow, error) {
	var rows []topProductRow
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select(
			"order_items.product_id AS product_id",
			"order_items.name AS name",
			"SUM(order_items.quantity) AS units_sold",
			"SUM(order_items.unit_price_cents * order_items.quantity) AS revenue_cents",
		).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status IN ?", enums.RevenueOrderStatuses()).
		Group("order_items.product_id, order_items.name").
		Order("revenue_cents DESC, units_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
