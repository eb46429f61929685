package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots a cart line at checkout. Name and unit price are
// copied from the product so later catalog edits leave past orders intact.
type OrderItem struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID        uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name             string    `gorm:"column:name;not null"`
	UnitPriceCents   int       `gorm:"column:unit_price_cents;not null"`
	Quantity         int       `gorm:"column:quantity;not null"`
	SelectedColor    *string   `gorm:"column:selected_color"`
	SelectedMaterial *string   `gorm:"column:selected_material"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}
