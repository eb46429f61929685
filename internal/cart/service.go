package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnora-labs/furnora-backend/pkg/db/models"
	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the cart behavior needed by the cart controller.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, input UpdateItemInput) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Tx          txRunner
	CartRepo    CartRepository
	ProductRepo productFinder
}

type service struct {
	tx       txRunner
	carts    CartRepository
	products productFinder
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{tx: params.Tx, carts: params.CartRepo, products: params.ProductRepo}, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := loadOrCreate(ctx, s.carts, userID)
	if err != nil {
		return nil, err
	}
	return toCartDTO(cart), nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.carts.WithTx(tx)
		cart, err := loadOrCreate(ctx, repo, userID)
		if err != nil {
			return err
		}

		// Lines merge only when product, color, and material all match.
		// The merge is an in-place increment so a concurrent add of the
		// same line is added to, not overwritten.
		if existing := findMatchingLine(cart, input); existing != nil {
			if err := repo.IncrementItemQuantity(ctx, existing.ID, input.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
			}
		} else {
			item := &models.CartItem{
				CartID:           cart.ID,
				ProductID:        product.ID,
				Quantity:         input.Quantity,
				SelectedColor:    input.SelectedColor,
				SelectedMaterial: input.SelectedMaterial,
			}
			if err := repo.SaveItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart line")
			}
		}
		return touch(ctx, repo, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, userID)
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, input UpdateItemInput) (*CartDTO, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.carts.WithTx(tx)
		item, err := findOwnedItem(ctx, repo, userID, itemID)
		if err != nil {
			return err
		}

		if input.Quantity <= 0 {
			if err := repo.DeleteItem(ctx, item.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart line")
			}
			return touch(ctx, repo, item.CartID)
		}

		item.Quantity = input.Quantity
		item.Product = nil
		if err := repo.SaveItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
		}
		return touch(ctx, repo, item.CartID)
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.carts.WithTx(tx)
		item, err := findOwnedItem(ctx, repo, userID, itemID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart line")
		}
		return touch(ctx, repo, item.CartID)
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.carts.WithTx(tx)
		cart, err := repo.FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}
		if err := repo.ClearItems(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}
		return touch(ctx, repo, cart.ID)
	})
}

func loadOrCreate(ctx context.Context, repo CartRepository, userID uuid.UUID) (*models.Cart, error) {
	cart, err := repo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	created, err := repo.Create(ctx, &models.Cart{UserID: userID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart")
	}
	return created, nil
}

func touch(ctx context.Context, repo CartRepository, cartID uuid.UUID) error {
	if err := repo.Touch(ctx, cartID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touching cart")
	}
	return nil
}

func (s *service) reload(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading cart")
	}
	return toCartDTO(cart), nil
}

func findOwnedItem(ctx context.Context, repo CartRepository, userID, itemID uuid.UUID) (*models.CartItem, error) {
	cart, err := repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	item, err := repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}
	return item, nil
}

func findMatchingLine(cart *models.Cart, input AddItemInput) *models.CartItem {
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.ProductID != input.ProductID {
			continue
		}
		if !stringPtrEqual(item.SelectedColor, input.SelectedColor) {
			continue
		}
		if !stringPtrEqual(item.SelectedMaterial, input.SelectedMaterial) {
			continue
		}
		return item
	}
	return nil
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
