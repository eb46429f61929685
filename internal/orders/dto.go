package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/furnora-labs/furnora-backend/pkg/db/models"
	"github.com/furnora-labs/furnora-backend/pkg/enums"
	"github.com/furnora-labs/furnora-backend/pkg/types"
)

// Actor identifies who is performing an order operation. Admins see every
// order; customers only their own.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// CheckoutInput is the payload for turning the cart into an order.
type CheckoutInput struct {
	ShippingInfo types.ShippingInfo `json:"shipping_info" validate:"required"`
	Card         types.CardSummary  `json:"card" validate:"required"`
}

// PayInput settles a pending order. SourceID is the gateway payment token;
// when absent the order is marked paid without an external charge.
type PayInput struct {
	SourceID       string `json:"source_id,omitempty"`
	IdempotencyKey string `json:"-"`
}

// UpdateOrderInput is the admin payload for mutating an order. Status moves
// the lifecycle forward; ShippingInfo patches the destination. Line items and
// the total are immutable after checkout.
type UpdateOrderInput struct {
	Status       enums.OrderStatus   `json:"status,omitempty"`
	ShippingInfo *types.ShippingInfo `json:"shipping_info,omitempty"`
}

// OrderFilters narrows order listings. UserID only applies to admin queries.
type OrderFilters struct {
	Status *enums.OrderStatus
	UserID *uuid.UUID
	From   *time.Time
	To     *time.Time
}

// OrderItemDTO is one snapshotted line of an order.
type OrderItemDTO struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	Name             string    `json:"name"`
	UnitPriceCents   int       `json:"unit_price_cents"`
	Quantity         int       `json:"quantity"`
	SelectedColor    *string   `json:"selected_color,omitempty"`
	SelectedMaterial *string   `json:"selected_material,omitempty"`
	LineTotalCents   int       `json:"line_total_cents"`
}

// OrderDTO is the order view returned to customers and admins.
type OrderDTO struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	Items         []OrderItemDTO     `json:"items"`
	TotalCents    int                `json:"total_cents"`
	Status        enums.OrderStatus  `json:"status"`
	ShippingInfo  types.ShippingInfo `json:"shipping_info"`
	Card          types.CardSummary  `json:"card"`
	PaymentRef    *string            `json:"payment_ref,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// OrderList is one page of orders plus the cursor for the next.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func toOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:           order.ID,
		UserID:       order.UserID,
		Items:        make([]OrderItemDTO, 0, len(order.Items)),
		TotalCents:   order.TotalCents,
		Status:       order.Status,
		ShippingInfo: order.ShippingInfo,
		Card:         order.Card,
		PaymentRef:   order.PaymentRef,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
	if order.User != nil {
		dto.CustomerName = order.User.Name
		dto.CustomerEmail = order.User.Email
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:               item.ID,
			ProductID:        item.ProductID,
			Name:             item.Name,
			UnitPriceCents:   item.UnitPriceCents,
			Quantity:         item.Quantity,
			SelectedColor:    item.SelectedColor,
			SelectedMaterial: item.SelectedMaterial,
			LineTotalCents:   item.UnitPriceCents * item.Quantity,
		})
	}
	return dto
}

func toOrderDTOs(orders []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *toOrderDTO(&orders[i]))
	}
	return dtos
}
