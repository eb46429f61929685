package products

import (
	"github.com/furnora-labs/furnora-backend/pkg/db/models"
	"github.com/furnora-labs/furnora-backend/pkg/types"
)

// ProductFilters narrows the public catalog listing.
type ProductFilters struct {
	Category      string
	Query         string
	RoomType      string
	InStock       *bool
	Bestseller    *bool
	MinPriceCents *int
	MaxPriceCents *int
}

// ProductList is one page of catalog results plus the cursor for the next.
type ProductList struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// CreateProductInput is the admin payload for a new listing.
type CreateProductInput struct {
	SKU                string           `json:"sku" validate:"required"`
	Name               string           `json:"name" validate:"required"`
	Description        string           `json:"description"`
	PriceCents         int              `json:"price_cents" validate:"required,gt=0"`
	OriginalPriceCents *int             `json:"original_price_cents,omitempty" validate:"omitempty,gt=0"`
	Images             []string         `json:"images"`
	Category           string           `json:"category" validate:"required"`
	Colors             []string         `json:"colors"`
	Materials          []string         `json:"materials"`
	Dimensions         types.Dimensions `json:"dimensions"`
	Tags               []string         `json:"tags"`
	Bestseller         bool             `json:"bestseller"`
	InStock            *bool            `json:"in_stock,omitempty"`
	RoomTypes          []string         `json:"room_types"`
}

// UpdateProductInput patches an existing listing. Nil fields are left as-is.
type UpdateProductInput struct {
	Name               *string           `json:"name,omitempty"`
	Description        *string           `json:"description,omitempty"`
	PriceCents         *int              `json:"price_cents,omitempty" validate:"omitempty,gt=0"`
	OriginalPriceCents *int              `json:"original_price_cents,omitempty" validate:"omitempty,gt=0"`
	Images             []string          `json:"images,omitempty"`
	Category           *string           `json:"category,omitempty"`
	Colors             []string          `json:"colors,omitempty"`
	Materials          []string          `json:"materials,omitempty"`
	Dimensions         *types.Dimensions `json:"dimensions,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
	Bestseller         *bool             `json:"bestseller,omitempty"`
	InStock            *bool             `json:"in_stock,omitempty"`
	RoomTypes          []string          `json:"room_types,omitempty"`
}
