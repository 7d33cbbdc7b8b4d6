package repository

import (
	"context"

	"gigmarket/internal/domain/entity"
)

type PostingRepository interface {
	Create(ctx context.Context, posting *entity.Posting) error
	GetByID(ctx context.Context, id string) (*entity.Posting, error)
	Update(ctx context.Context, posting *entity.Posting) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Posting, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Posting, error)
}
