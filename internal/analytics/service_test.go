package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/furnora-labs/furnora-backend/pkg/db/models"
	"github.com/furnora-labs/furnora-backend/pkg/enums"
)

func setupAnalyticsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	for _, table := range []string{"order_items", "orders", "products", "users"} {
		require.NoError(t, db.Exec(`DROP TABLE IF EXISTS `+table).Error)
	}

	statements := []string{`
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  reset_token TEXT,
  reset_token_expiry DATETIME,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE products (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  price_cents INTEGER NOT NULL,
  original_price_cents INTEGER,
  images TEXT,
  category TEXT,
  colors TEXT,
  materials TEXT,
  dimensions TEXT,
  tags TEXT,
  room_types TEXT,
  bestseller INTEGER NOT NULL DEFAULT 0,
  rating REAL NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  in_stock INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_cents INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  shipping_info TEXT,
  card TEXT,
  payment_ref TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  selected_color TEXT,
  selected_material TEXT,
  created_at DATETIME
);`}
	for _, ddl := range statements {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func newAnalyticsService(t *testing.T, db *gorm.DB, now time.Time) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Repo: NewRepository(db),
		Now:  func() time.Time { return now },
	})
	require.NoError(t, err)
	return svc
}

func seedCustomer(t *testing.T, db *gorm.DB, name string, created time.Time) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         enums.UserRoleCustomer,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedAnalyticsOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, totalCents int, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:         uuid.New(),
		UserID:     userID,
		TotalCents: totalCents,
		Status:     status,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func seedOrderLine(t *testing.T, db *gorm.DB, orderID, productID uuid.UUID, name string, unitPriceCents, qty int) {
	t.Helper()

	item := &models.OrderItem{
		ID:             uuid.New(),
		OrderID:        orderID,
		ProductID:      productID,
		Name:           name,
		UnitPriceCents: unitPriceCents,
		Quantity:       qty,
	}
	require.NoError(t, db.Create(item).Error)
}

func TestAnalyticsDashboard(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	svc := newAnalyticsService(t, db, now)

	alice := seedCustomer(t, db, "Alice", now.AddDate(0, -1, 0))
	bob := seedCustomer(t, db, "Bob", now.AddDate(0, 0, -2))
	admin := &models.User{
		ID:           uuid.New(),
		Name:         "Ops",
		Email:        "ops@example.com",
		PasswordHash: "x",
		Role:         enums.UserRoleAdmin,
	}
	require.NoError(t, db.Create(admin).Error)

	require.NoError(t, db.Create(&models.Product{ID: uuid.New(), SKU: "A-1", Name: "Armchair", PriceCents: 19900}).Error)

	// Revenue counts paid, shipped and delivered totals; pending and
	// cancelled orders only count toward the order total.
	seedAnalyticsOrder(t, db, alice.ID, 10000, enums.OrderStatusPaid, now.AddDate(0, 0, -3))
	seedAnalyticsOrder(t, db, alice.ID, 20000, enums.OrderStatusDelivered, now.AddDate(0, 0, -2))
	seedAnalyticsOrder(t, db, bob.ID, 5000, enums.OrderStatusPending, now.AddDate(0, 0, -1))
	seedAnalyticsOrder(t, db, bob.ID, 7000, enums.OrderStatusCancelled, now.AddDate(0, 0, -1))

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(30000), stats.RevenueCents)
	assert.Equal(t, "300.00", stats.RevenueUSD)
	assert.Equal(t, int64(4), stats.OrderCount)
	assert.Equal(t, int64(1), stats.ProductCount)
	assert.Equal(t, int64(2), stats.CustomerCount)
}

func TestAnalyticsTimeseries(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	now := time.Date(2026, 5, 20, 15, 30, 0, 0, time.UTC)
	svc := newAnalyticsService(t, db, now)

	alice := seedCustomer(t, db, "Alice", now.AddDate(0, 0, -1))
	seedCustomer(t, db, "Recent", now.Add(-2*time.Hour))
	seedCustomer(t, db, "Ancient", now.AddDate(0, 0, -30))

	seedAnalyticsOrder(t, db, alice.ID, 10000, enums.OrderStatusPaid, now.AddDate(0, 0, -1))
	seedAnalyticsOrder(t, db, alice.ID, 4000, enums.OrderStatusPending, now.AddDate(0, 0, -1))
	seedAnalyticsOrder(t, db, alice.ID, 25000, enums.OrderStatusShipped, now.Add(-time.Hour))
	// Outside the window, must not appear.
	seedAnalyticsOrder(t, db, alice.ID, 99900, enums.OrderStatusPaid, now.AddDate(0, 0, -10))

	series, err := svc.Timeseries(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 7, series.Days)
	require.Len(t, series.Buckets, 7)

	assert.Equal(t, "2026-05-14", series.Buckets[0].Day)
	assert.Equal(t, "2026-05-20", series.Buckets[6].Day)

	yesterday := series.Buckets[5]
	assert.Equal(t, "2026-05-19", yesterday.Day)
	assert.Equal(t, int64(2), yesterday.OrderCount)
	assert.Equal(t, int64(10000), yesterday.RevenueCents)
	assert.Equal(t, int64(1), yesterday.NewCustomers)

	today := series.Buckets[6]
	assert.Equal(t, int64(1), today.OrderCount)
	assert.Equal(t, int64(25000), today.RevenueCents)
	assert.Equal(t, int64(1), today.NewCustomers)

	for _, bucket := range series.Buckets[:5] {
		assert.Zero(t, bucket.OrderCount, "day %s", bucket.Day)
	}
}

func TestAnalyticsTimeseriesWindowTooLarge(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	svc := newAnalyticsService(t, db, time.Now().UTC())

	_, err := svc.Timeseries(context.Background(), 365)
	assert.Error(t, err)
}

func TestAnalyticsAbandonedCheckouts(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	svc := newAnalyticsService(t, db, now)

	alice := seedCustomer(t, db, "Alice", now.AddDate(0, 0, -5))
	stale := seedAnalyticsOrder(t, db, alice.ID, 15000, enums.OrderStatusPending, now.Add(-48*time.Hour))
	// Fresh pending and old-but-paid orders stay out of the report.
	seedAnalyticsOrder(t, db, alice.ID, 5000, enums.OrderStatusPending, now.Add(-time.Hour))
	seedAnalyticsOrder(t, db, alice.ID, 30000, enums.OrderStatusPaid, now.Add(-72*time.Hour))

	report, err := svc.AbandonedCheckouts(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, stale.ID, report[0].OrderID)
	assert.Equal(t, "Alice", report[0].CustomerName)
	assert.Equal(t, 15000, report[0].TotalCents)
}

func TestAnalyticsTopProducts(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	svc := newAnalyticsService(t, db, now)

	alice := seedCustomer(t, db, "Alice", now.AddDate(0, 0, -10))
	sofaID := uuid.New()
	lampID := uuid.New()

	paid := seedAnalyticsOrder(t, db, alice.ID, 115700, enums.OrderStatusPaid, now.Add(-time.Hour))
	seedOrderLine(t, db, paid.ID, sofaID, "Linen Sofa", 89900, 1)
	seedOrderLine(t, db, paid.ID, lampID, "Brass Lamp", 12900, 2)

	delivered := seedAnalyticsOrder(t, db, alice.ID, 12900, enums.OrderStatusDelivered, now.Add(-2*time.Hour))
	seedOrderLine(t, db, delivered.ID, lampID, "Brass Lamp", 12900, 1)

	// Cancelled lines never count.
	cancelled := seedAnalyticsOrder(t, db, alice.ID, 89900, enums.OrderStatusCancelled, now.Add(-3*time.Hour))
	seedOrderLine(t, db, cancelled.ID, sofaID, "Linen Sofa", 89900, 1)

	top, err := svc.TopProducts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, sofaID, top[0].ProductID)
	assert.Equal(t, int64(1), top[0].UnitsSold)
	assert.Equal(t, int64(89900), top[0].RevenueCents)
	assert.Equal(t, "899.00", top[0].RevenueUSD)

	assert.Equal(t, lampID, top[1].ProductID)
	assert.Equal(t, int64(3), top[1].UnitsSold)
	assert.Equal(t, int64(38700), top[1].RevenueCents)
}
