package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
)

const deviceTokensCollection = "deviceTokens"

type firestoreDeviceTokenRepository struct {
	client *firestore.Client
}

func NewFirestoreDeviceTokenRepository(client *firestore.Client) repository.DeviceTokenRepository {
	return &firestoreDeviceTokenRepository{
		client: client,
	}
}

func (r *firestoreDeviceTokenRepository) Register(ctx context.Context, userID, token string) error {
	_, err := r.client.Collection(deviceTokensCollection).Doc(token).Set(ctx, &entity.DeviceToken{
		Token:     token,
		UserID:    userID,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return errors.Internal("Failed to register device token", err)
	}
	return nil
}

func (r *firestoreDeviceTokenRepository) ListByUser(ctx context.Context, userID string) ([]string, error) {
	docs, err := r.client.Collection(deviceTokensCollection).
		Where("userId", "==", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list device tokens", err)
	}

	tokens := make([]string, 0, len(docs))
	for _, doc := range docs {
		tokens = append(tokens, doc.Ref.ID)
	}
	return tokens, nil
}

func (r *firestoreDeviceTokenRepository) Delete(ctx context.Context, token string) error {
	_, err := r.client.Collection(deviceTokensCollection).Doc(token).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return errors.Internal("Failed to delete device token", err)
	}
	return nil
}
