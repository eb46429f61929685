package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/furnora-labs/furnora-backend/pkg/db"
	"github.com/furnora-labs/furnora-backend/pkg/db/models"
	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
	"github.com/furnora-labs/furnora-backend/pkg/pagination"
	pkgredis "github.com/furnora-labs/furnora-backend/pkg/redis"
)

// Service defines the catalog behavior needed by the product controllers.
type Service interface {
	List(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductList, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filters ProductFilters, limit int, cursor *pagination.Cursor) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a product service.
type ServiceParams struct {
	Repo productRepository
	// Redis enables the optional detail cache. Leave nil to read straight
	// from the database.
	Redis    *pkgredis.Client
	CacheTTL time.Duration
}

type service struct {
	repo  productRepository
	cache *productCache
}

// NewService constructs a product service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{
		repo:  params.Repo,
		cache: newProductCache(params.Redis, params.CacheTTL),
	}, nil
}

func (s *service) List(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	var cursor *pagination.Cursor
	if params.Cursor != "" {
		parsed, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		cursor = parsed
	}

	rows, err := s.repo.List(ctx, filters, pagination.LimitWithBuffer(limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	list := &ProductList{Products: rows}
	if len(rows) > limit {
		list.Products = rows[:limit]
		// The cursor encodes the last row we return; the repo predicate
		// excludes it, so the next page starts at the row after it.
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached := s.cache.get(ctx, id); cached != nil {
		return cached, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	s.cache.set(ctx, product)
	return product, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
	}

	inStock := true
	if input.InStock != nil {
		inStock = *input.InStock
	}

	product := &models.Product{
		SKU:                sku,
		Name:               strings.TrimSpace(input.Name),
		Description:        input.Description,
		PriceCents:         input.PriceCents,
		OriginalPriceCents: input.OriginalPriceCents,
		Images:             pq.StringArray(input.Images),
		Category:           input.Category,
		Colors:             pq.StringArray(input.Colors),
		Materials:          pq.StringArray(input.Materials),
		Dimensions:         input.Dimensions,
		Tags:               pq.StringArray(input.Tags),
		Bestseller:         input.Bestseller,
		InStock:            inStock,
		RoomTypes:          pq.StringArray(input.RoomTypes),
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a product with this sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	applyProductPatch(product, input)
	if product.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}

	s.cache.invalidate(ctx, id)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}

	s.cache.invalidate(ctx, id)
	return nil
}

func applyProductPatch(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.OriginalPriceCents != nil {
		product.OriginalPriceCents = input.OriginalPriceCents
	}
	if input.Images != nil {
		product.Images = pq.StringArray(input.Images)
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Colors != nil {
		product.Colors = pq.StringArray(input.Colors)
	}
	if input.Materials != nil {
		product.Materials = pq.StringArray(input.Materials)
	}
	if input.Dimensions != nil {
		product.Dimensions = *input.Dimensions
	}
	if input.Tags != nil {
		product.Tags = pq.StringArray(input.Tags)
	}
	if input.Bestseller != nil {
		product.Bestseller = *input.Bestseller
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.RoomTypes != nil {
		product.RoomTypes = pq.StringArray(input.RoomTypes)
	}
}
