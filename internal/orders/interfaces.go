package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnora-labs/furnora-backend/pkg/db/models"
	"github.com/furnora-labs/furnora-backend/pkg/enums"
	"github.com/furnora-labs/furnora-backend/pkg/pagination"
	"github.com/furnora-labs/furnora-backend/pkg/types"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters OrderFilters, limit int, cursor *pagination.Cursor) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	UpdateShipping(ctx context.Context, id uuid.UUID, shipping types.ShippingInfo) error
	SetPaymentRef(ctx context.Context, id uuid.UUID, ref string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
