package repository

import (
	"context"

	"gigmarket/internal/domain/entity"
)

type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Location, error)
	Delete(ctx context.Context, id string) error
}
