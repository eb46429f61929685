package orders

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	sq "github.com/square/square-go-sdk"
	"gorm.io/gorm"

	"github.com/furnora-labs/furnora-backend/internal/cart"
	"github.com/furnora-labs/furnora-backend/pkg/db/models"
	"github.com/furnora-labs/furnora-backend/pkg/enums"
	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
	"github.com/furnora-labs/furnora-backend/pkg/pagination"
	pkgsquare "github.com/furnora-labs/furnora-backend/pkg/square"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentProcessor interface {
	CreatePayment(ctx context.Context, params pkgsquare.PaymentCreateParams) (*sq.Payment, error)
}

// Service defines the order behavior needed by the order controllers.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*OrderDTO, error)
	Pay(ctx context.Context, actor Actor, orderID uuid.UUID, input PayInput) (*OrderDTO, error)
	Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	GetByID(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, actor Actor, filters OrderFilters, params pagination.Params) (*OrderList, error)
	Update(ctx context.Context, orderID uuid.UUID, input UpdateOrderInput) (*OrderDTO, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
	ExportCSV(ctx context.Context, w io.Writer, filters OrderFilters) error
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	Tx       txRunner
	Orders   Repository
	Carts    cart.CartRepository
	// Payments is optional. When nil, Pay marks orders paid without an
	// external charge.
	Payments paymentProcessor
}

type service struct {
	tx       txRunner
	orders   Repository
	carts    cart.CartRepository
	payments paymentProcessor
}

// NewService constructs an order service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	return &service{
		tx:       params.Tx,
		orders:   params.Orders,
		carts:    params.Carts,
		payments: params.Payments,
	}, nil
}

// Checkout snapshots the user's cart into a pending order. The order insert
// and the cart wipe happen in one transaction so a failure leaves the cart
// untouched.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*OrderDTO, error) {
	if !input.ShippingInfo.IsComplete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping info is incomplete")
	}
	if !input.Card.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card summary is invalid")
	}

	var orderID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.carts.WithTx(tx)
		ordersRepo := s.orders.WithTx(tx)

		userCart, err := cartRepo.FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}
		if len(userCart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		items := make([]models.OrderItem, 0, len(userCart.Items))
		total := 0
		for _, line := range userCart.Items {
			if line.Product == nil {
				return pkgerrors.New(pkgerrors.CodeInternal, "cart line missing product")
			}
			items = append(items, models.OrderItem{
				ProductID:        line.ProductID,
				Name:             line.Product.Name,
				UnitPriceCents:   line.Product.PriceCents,
				Quantity:         line.Quantity,
				SelectedColor:    line.SelectedColor,
				SelectedMaterial: line.SelectedMaterial,
			})
			total += line.Product.PriceCents * line.Quantity
		}

		order := &models.Order{
			UserID:       userID,
			Items:        items,
			TotalCents:   total,
			Status:       enums.OrderStatusPending,
			ShippingInfo: input.ShippingInfo,
			Card:         input.Card,
		}
		created, err := ordersRepo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}
		orderID = created.ID

		if err := cartRepo.ClearItems(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout transaction")
	}

	return s.loadDTO(ctx, orderID)
}

// Pay settles a pending order. When a gateway source is provided and a
// payment processor is configured the charge happens first; the status flip
// only lands after the gateway accepts.
func (s *service) Pay(ctx context.Context, actor Actor, orderID uuid.UUID, input PayInput) (*OrderDTO, error) {
	order, err := s.findVisible(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not payable").
			WithDetails(map[string]string{"status": order.Status.String()})
	}

	var paymentRef string
	if s.payments != nil && input.SourceID != "" {
		payment, err := s.payments.CreatePayment(ctx, pkgsquare.PaymentCreateParams{
			AmountCents:    int64(order.TotalCents),
			SourceID:       input.SourceID,
			IdempotencyKey: input.IdempotencyKey,
			ReferenceID:    order.ID.String(),
		})
		if err != nil {
			return nil, err
		}
		if payment != nil && payment.GetID() != nil {
			paymentRef = *payment.GetID()
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPaid); err != nil {
			return err
		}
		if paymentRef != "" {
			return repo.SetPaymentRef(ctx, order.ID, paymentRef)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking order paid")
	}

	return s.loadDTO(ctx, order.ID)
}

// Cancel voids a pending order. Paid or shipped orders cannot be cancelled.
func (s *service) Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findVisible(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(enums.OrderStatusCancelled) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
			WithDetails(map[string]string{"status": order.Status.String()})
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
	}
	return s.loadDTO(ctx, order.ID)
}

func (s *service) GetByID(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findVisible(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

func (s *service) List(ctx context.Context, actor Actor, filters OrderFilters, params pagination.Params) (*OrderList, error) {
	// Customers only ever see their own orders regardless of filters.
	if !actor.IsAdmin() {
		filters.UserID = &actor.UserID
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var cursor *pagination.Cursor
	if params.Cursor != "" {
		parsed, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		cursor = parsed
	}

	rows, err := s.orders.List(ctx, filters, pagination.LimitWithBuffer(limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	list := &OrderList{Orders: toOrderDTOs(rows)}
	if len(rows) > limit {
		list.Orders = list.Orders[:limit]
		// The cursor encodes the last row we return; the repo predicate
		// excludes it, so the next page starts at the row after it.
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

// Update applies an admin mutation. Status changes are checked against the
// lifecycle; the shipping destination may be patched while items and the
// total stay frozen.
func (s *service) Update(ctx context.Context, orderID uuid.UUID, input UpdateOrderInput) (*OrderDTO, error) {
	if input.Status == "" && input.ShippingInfo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if input.Status != "" {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		if !order.Status.CanTransitionTo(input.Status) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
				WithDetails(map[string]string{
					"from": order.Status.String(),
					"to":   input.Status.String(),
				})
		}
	}
	if input.ShippingInfo != nil && !input.ShippingInfo.IsComplete() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping info is incomplete")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)
		if input.Status != "" {
			if err := repo.UpdateStatus(ctx, order.ID, input.Status); err != nil {
				return err
			}
		}
		if input.ShippingInfo != nil {
			if err := repo.UpdateShipping(ctx, order.ID, *input.ShippingInfo); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
	}
	return s.loadDTO(ctx, order.ID)
}

func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	if _, err := s.findOrder(ctx, orderID); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting order")
	}
	return nil
}

func (s *service) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

// findVisible loads an order and rejects customers acting on orders they do
// not own.
func (s *service) findVisible(ctx context.Context, actor Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")
	}
	return order, nil
}

func (s *service) loadDTO(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}
