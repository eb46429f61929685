package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/furnora-labs/furnora-backend/pkg/types"
)

// Product represents a catalog listing. Cart and order rows reference it by
// id; only order line items copy its fields (the checkout snapshot).
type Product struct {
	ID                  uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU                 string           `gorm:"column:sku;not null;uniqueIndex"`
	Name                string           `gorm:"column:name;not null"`
	Description         string           `gorm:"column:description;not null;default:''"`
	PriceCents          int              `gorm:"column:price_cents;not null"`
	OriginalPriceCents  *int             `gorm:"column:original_price_cents"`
	Images              pq.StringArray   `gorm:"column:images;type:text[]"`
	Category            string           `gorm:"column:category;not null;index"`
	Colors              pq.StringArray   `gorm:"column:colors;type:text[]"`
	Materials           pq.StringArray   `gorm:"column:materials;type:text[]"`
	Dimensions          types.Dimensions `gorm:"column:dimensions;type:jsonb;serializer:json"`
	Tags                pq.StringArray   `gorm:"column:tags;type:text[]"`
	Bestseller          bool             `gorm:"column:bestseller;not null;default:false"`
	Rating              float64          `gorm:"column:rating;not null;default:0"`
	ReviewCount         int              `gorm:"column:review_count;not null;default:0"`
	InStock             bool             `gorm:"column:in_stock;not null;default:true"`
	RoomTypes           pq.StringArray   `gorm:"column:room_types;type:text[]"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
