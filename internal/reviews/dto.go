package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/furnora-labs/furnora-backend/pkg/db/models"
)

// CreateReviewInput is the payload for reviewing a product.
type CreateReviewInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment"`
}

// ReviewDTO is one review with its author's display name.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Author    string    `json:"author,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewDTO(review *models.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
	if review.User != nil {
		dto.Author = review.User.Name
	}
	return dto
}
