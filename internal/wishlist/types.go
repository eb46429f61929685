package wishlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/furnora-labs/furnora-backend/pkg/db/models"
)

// WishlistItemDTO is one saved product.
type WishlistItemDTO struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	Image      string    `json:"image,omitempty"`
	InStock    bool      `json:"in_stock"`
	CreatedAt  time.Time `json:"created_at"`
}

// WishlistPageDTO is one page of saved products plus the next cursor.
type WishlistPageDTO struct {
	Items      []WishlistItemDTO `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func toWishlistItemDTO(item *models.WishlistItem) WishlistItemDTO {
	dto := WishlistItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		CreatedAt: item.CreatedAt,
	}
	if item.Product != nil {
		dto.Name = item.Product.Name
		dto.PriceCents = item.Product.PriceCents
		dto.InStock = item.Product.InStock
		if len(item.Product.Images) > 0 {
			dto.Image = item.Product.Images[0]
		}
	}
	return dto
}
