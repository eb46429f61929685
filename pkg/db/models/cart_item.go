package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a line in a cart. Two lines with the same product but a
// different color or material selection stay separate; the merge key is the
// (product, color, material) triple.
type CartItem struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID           uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID        uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Product          *Product  `gorm:"foreignKey:ProductID"`
	Quantity         int       `gorm:"column:quantity;not null"`
	SelectedColor    *string   `gorm:"column:selected_color"`
	SelectedMaterial *string   `gorm:"column:selected_material"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
