package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/furnora-labs/furnora-backend/pkg/enums"
	"github.com/furnora-labs/furnora-backend/pkg/types"
)

// Order is an immutable purchase record. Totals are computed server side at
// checkout and never recalculated; Card only ever holds the brand and last
// four digits.
type Order struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	User         *User              `gorm:"foreignKey:UserID"`
	Items        []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalCents   int                `gorm:"column:total_cents;not null"`
	Status       enums.OrderStatus  `gorm:"column:status;not null;default:'pending';index"`
	ShippingInfo types.ShippingInfo `gorm:"column:shipping_info;type:jsonb;serializer:json"`
	Card         types.CardSummary  `gorm:"column:card;type:jsonb;serializer:json"`
	PaymentRef   *string            `gorm:"column:payment_ref"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
