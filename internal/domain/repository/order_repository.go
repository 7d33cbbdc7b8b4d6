package repository

import (
	"context"

	"gigmarket/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	ListByBuyer(ctx context.Context, buyerID string) ([]*entity.Order, error)
}
