package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnora-labs/furnora-backend/pkg/db/models"
)

// Repository defines persistence for reviews plus the denormalized rating
// columns they maintain on products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.Review, error)
	Aggregate(ctx context.Context, productID uuid.UUID) (avg float64, count int, err error)
	UpdateProductRating(ctx context.Context, productID uuid.UUID, rating float64, count int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reviews repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]models.Review, error) {
	var rows []models.Review
	q := r.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Aggregate(ctx context.Context, productID uuid.UUID) (float64, int, error) {
	var result struct {
		Avg   float64
		Count int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Avg, result.Count, nil
}

func (r *repository) UpdateProductRating(ctx context.Context, productID uuid.UUID, rating float64, count int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumns(map[string]any{
			"rating":       rating,
			"review_count": count,
		}).Error
}
