package products

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
	"github.com/furnora-labs/furnora-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS products (
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
);`
	require.NoError(t, db.Exec(`DROP TABLE IF EXISTS products`).Error)
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func newProduct(t *testing.T, db *gorm.DB, sku, name, category string, priceCents int, created time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:         uuid.New(),
		SKU:        sku,
		Name:       name,
		Category:   category,
		PriceCents: priceCents,
		InStock:    true,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryList_keysetPagination(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	newProduct(t, db, "SOFA-100", "Linen Sofa", "sofas", 89900, now.Add(-2*time.Hour))
	newProduct(t, db, "LAMP-200", "Brass Lamp", "lighting", 12900, now.Add(-time.Hour))
	newest := newProduct(t, db, "DESK-300", "Oak Desk", "desks", 45900, now)

	rows, err := repo.List(context.Background(), ProductFilters{}, pagination.LimitWithBuffer(2), nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, newest.ID, rows[0].ID)

	cursor := pagination.Cursor{CreatedAt: rows[2].CreatedAt, ID: rows[2].ID}
	second, err := repo.List(context.Background(), ProductFilters{}, pagination.LimitWithBuffer(2), &cursor)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "SOFA-100", second[0].SKU)
}

func TestRepositoryList_filters(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	sofa := newProduct(t, db, "SOFA-110", "Velvet Sofa", "sofas", 129900, now.Add(-time.Minute))
	lamp := newProduct(t, db, "LAMP-210", "Paper Lantern", "lighting", 5900, now)
	require.NoError(t, db.Model(lamp).UpdateColumn("in_stock", false).Error)

	byCategory, err := repo.List(context.Background(), ProductFilters{Category: "sofas"}, 10, nil)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, sofa.ID, byCategory[0].ID)

	inStock := true
	available, err := repo.List(context.Background(), ProductFilters{InStock: &inStock}, 10, nil)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, sofa.ID, available[0].ID)

	maxPrice := 10000
	cheap, err := repo.List(context.Background(), ProductFilters{MaxPriceCents: &maxPrice}, 10, nil)
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, "LAMP-210", cheap[0].SKU)

	searched, err := repo.List(context.Background(), ProductFilters{Query: "velvet"}, 10, nil)
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, sofa.ID, searched[0].ID)
}

func TestRepositoryCreate_duplicateSKU(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	newProduct(t, db, "CHAIR-400", "Walnut Chair", "chairs", 25900, now)

	dup := &models.Product{
		ID:         uuid.New(),
		SKU:        "CHAIR-400",
		Name:       "Other Chair",
		Category:   "chairs",
		PriceCents: 19900,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := repo.Create(context.Background(), dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}

func TestRepositoryUpdateRating(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)

	product := newProduct(t, db, "BED-500", "Platform Bed", "beds", 159900, time.Now().UTC())

	require.NoError(t, repo.UpdateRating(context.Background(), product.ID, 4.5, 2))

	reloaded, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, reloaded.Rating, 0.001)
	assert.Equal(t, 2, reloaded.ReviewCount)
}
