package repository

import (
	"context"

	"gigmarket/internal/domain/entity"
)

// MessageIterator yields the full, timestamp-ordered conversation every time
// it changes upstream. Next blocks until the next change.
type MessageIterator interface {
	Next() ([]*entity.Message, error)
	Stop()
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	ListConversation(ctx context.Context, a, b string) ([]*entity.Message, error)
	WatchConversation(ctx context.Context, a, b string) MessageIterator
}
