package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnora-labs/furnora-backend/pkg/db"
	"github.com/furnora-labs/furnora-backend/pkg/db/models"
	pkgerrors "github.com/furnora-labs/furnora-backend/pkg/errors"
)

const defaultListLimit = 100

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service defines the review behavior needed by the review controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
}

// ServiceParams bundles the dependencies required to build a review service.
type ServiceParams struct {
	Tx       txRunner
	Reviews  Repository
	Products productFinder
}

type service struct {
	tx       txRunner
	reviews  Repository
	products productFinder
}

// NewService constructs a review service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Reviews == nil {
		return nil, fmt.Errorf("reviews repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{tx: params.Tx, reviews: params.Reviews, products: params.Products}, nil
}

// Create writes the review and refreshes the product's rating summary in the
// same transaction. The unique (user, product) index is the duplicate guard;
// there is no check-then-insert window.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: input.ProductID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.reviews.WithTx(tx)

		if _, err := repo.Create(ctx, review); err != nil {
			if db.IsUniqueViolation(err, "idx_reviews_user_product") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product already reviewed")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating review")
		}

		avg, count, err := repo.Aggregate(ctx, input.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating reviews")
		}
		if err := repo.UpdateProductRating(ctx, input.ProductID, avg, count); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product rating")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "review transaction")
	}

	dto := toReviewDTO(review)
	return &dto, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	rows, err := s.reviews.ListByProduct(ctx, productID, defaultListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reviews")
	}
	dtos := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toReviewDTO(&rows[i]))
	}
	return dtos, nil
}
