package products

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/furnora-labs/furnora-backend/pkg/db/models"
	pkgredis "github.com/furnora-labs/furnora-backend/pkg/redis"
)

// productCache is a cache-aside layer for product detail reads. Misses and
// transport failures both fall through to the database.
type productCache struct {
	client *pkgredis.Client
	ttl    time.Duration
}

func newProductCache(client *pkgredis.Client, ttl time.Duration) *productCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &productCache{client: client, ttl: ttl}
}

func (c *productCache) key(id uuid.UUID) string {
	return c.client.CacheKey("products", id.String())
}

func (c *productCache) get(ctx context.Context, id uuid.UUID) *models.Product {
	if c == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, c.key(id))
	if err != nil {
		return nil
	}
	var product models.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return nil
	}
	return &product
}

func (c *productCache) set(ctx context.Context, product *models.Product) {
	if c == nil || product == nil {
		return
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(product.ID), string(raw), c.ttl)
}

func (c *productCache) invalidate(ctx context.Context, id uuid.UUID) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, c.key(id))
}
