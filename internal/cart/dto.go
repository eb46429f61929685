package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/furnora-labs/furnora-backend/pkg/db/models"
)

// AddItemInput is the payload for adding a product to the cart.
type AddItemInput struct {
	ProductID        uuid.UUID `json:"product_id" validate:"required"`
	Quantity         int       `json:"quantity" validate:"required,gt=0"`
	SelectedColor    *string   `json:"selected_color,omitempty"`
	SelectedMaterial *string   `json:"selected_material,omitempty"`
}

// UpdateItemInput changes the quantity of an existing cart line.
// Zero or negative quantities remove the line.
type UpdateItemInput struct {
	Quantity int `json:"quantity"`
}

// CartItemDTO is one line of the cart with its product snapshot.
type CartItemDTO struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	Name             string    `json:"name"`
	PriceCents       int       `json:"price_cents"`
	Image            string    `json:"image,omitempty"`
	Quantity         int       `json:"quantity"`
	SelectedColor    *string   `json:"selected_color,omitempty"`
	SelectedMaterial *string   `json:"selected_material,omitempty"`
	LineTotalCents   int       `json:"line_total_cents"`
	InStock          bool      `json:"in_stock"`
}

// CartDTO is the full cart view returned to the storefront.
type CartDTO struct {
	ID            uuid.UUID     `json:"id"`
	Items         []CartItemDTO `json:"items"`
	ItemCount     int           `json:"item_count"`
	SubtotalCents int           `json:"subtotal_cents"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func toCartDTO(cart *models.Cart) *CartDTO {
	dto := &CartDTO{
		ID:        cart.ID,
		Items:     make([]CartItemDTO, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		line := CartItemDTO{
			ID:               item.ID,
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			SelectedColor:    item.SelectedColor,
			SelectedMaterial: item.SelectedMaterial,
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.PriceCents = item.Product.PriceCents
			line.InStock = item.Product.InStock
			if len(item.Product.Images) > 0 {
				line.Image = item.Product.Images[0]
			}
			line.LineTotalCents = item.Product.PriceCents * item.Quantity
		}
		dto.Items = append(dto.Items, line)
		dto.ItemCount += item.Quantity
		dto.SubtotalCents += line.LineTotalCents
	}
	return dto
}
