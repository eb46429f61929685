package orders

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
	"github.com/furnora-labs/furnora-backend/pkg/pagination"
	"github.com/furnora-labs/furnora-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
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
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_cents INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  shipping_info TEXT,
  card TEXT,
  payment_ref TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  unit_price_cents INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  selected_color TEXT,
  selected_material TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS order_items`).Error)
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS orders`).Error)
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS users`).Error)
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         enums.UserRoleCustomer,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, totalCents int, status enums.OrderStatus, created time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:         uuid.New(),
		UserID:     userID,
		TotalCents: totalCents,
		Status:     status,
		ShippingInfo: types.ShippingInfo{
			Name:    "Test Customer",
			Address: "12 Main St",
			City:    "Norman",
			State:   "OK",
			Zip:     "73072",
			Phone:   "4055550100",
			Email:   "test@example.com",
		},
		Card:      types.CardSummary{Brand: "visa", Last4: "4242"},
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(order).Error)

	item := &models.OrderItem{
		ID:             uuid.New(),
		OrderID:        order.ID,
		ProductID:      uuid.New(),
		Name:           "Linen Sofa",
		UnitPriceCents: totalCents,
		Quantity:       1,
		CreatedAt:      created,
	}
	require.NoError(t, db.Create(item).Error)
	return order
}

func TestRepositoryFindByID_preloadsItemsAndUser(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	user := seedUser(t, db, "Ada Shopper")
	order := seedOrder(t, db, user.ID, 89900, enums.OrderStatusPending, time.Now().UTC())

	loaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.User)
	assert.Equal(t, "Ada Shopper", loaded.User.Name)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Linen Sofa", loaded.Items[0].Name)
	assert.Equal(t, "4242", loaded.Card.Last4)
}

func TestRepositoryList_filtersAndKeysetPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	alice := seedUser(t, db, "Alice")
	bob := seedUser(t, db, "Bob")

	now := time.Now().UTC()
	seedOrder(t, db, alice.ID, 10000, enums.OrderStatusPending, now.Add(-2*time.Hour))
	seedOrder(t, db, alice.ID, 20000, enums.OrderStatusPaid, now.Add(-time.Hour))
	newest := seedOrder(t, db, bob.ID, 30000, enums.OrderStatusPaid, now)

	paid := enums.OrderStatusPaid
	byStatus, err := repo.List(context.Background(), OrderFilters{Status: &paid}, 10, nil)
	require.NoError(t, err)
	require.Len(t, byStatus, 2)
	assert.Equal(t, newest.ID, byStatus[0].ID)

	byUser, err := repo.List(context.Background(), OrderFilters{UserID: &alice.ID}, 10, nil)
	require.NoError(t, err)
	require.Len(t, byUser, 2)

	from := now.Add(-90 * time.Minute)
	recent, err := repo.List(context.Background(), OrderFilters{From: &from}, 10, nil)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	firstPage, err := repo.List(context.Background(), OrderFilters{}, 2, nil)
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	cursor := pagination.Cursor{CreatedAt: firstPage[1].CreatedAt, ID: firstPage[1].ID}
	secondPage, err := repo.List(context.Background(), OrderFilters{}, 2, &cursor)
	require.NoError(t, err)
	require.Len(t, secondPage, 1)
	assert.Equal(t, 10000, secondPage[0].TotalCents)
}

func TestRepositoryUpdateStatusAndPaymentRef(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	user := seedUser(t, db, "Cara")
	order := seedOrder(t, db, user.ID, 45900, enums.OrderStatusPending, time.Now().UTC())

	require.NoError(t, repo.UpdateStatus(context.Background(), order.ID, enums.OrderStatusPaid))
	require.NoError(t, repo.SetPaymentRef(context.Background(), order.ID, "sq-payment-123"))

	shipping := order.ShippingInfo
	shipping.City = "Tulsa"
	require.NoError(t, repo.UpdateShipping(context.Background(), order.ID, shipping))

	loaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, loaded.Status)
	assert.Equal(t, "Tulsa", loaded.ShippingInfo.City)
	require.NotNil(t, loaded.PaymentRef)
	assert.Equal(t, "sq-payment-123", *loaded.PaymentRef)
}

func TestRepositoryDelete_removesItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	user := seedUser(t, db, "Dora")
	order := seedOrder(t, db, user.ID, 12900, enums.OrderStatusCancelled, time.Now().UTC())

	require.NoError(t, repo.Delete(context.Background(), order.ID))

	_, err := repo.FindByID(context.Background(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
}
