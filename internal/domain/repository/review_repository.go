package repository

import (
	"context"

	"gigmarket/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	ListByReviewee(ctx context.Context, revieweeID string) ([]*entity.Review, error)
}
