package repository

import (
	"context"
)

type DeviceTokenRepository interface {
	Register(ctx context.Context, userID, token string) error
	ListByUser(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, token string) error
}
