package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
)

const locationsCollection = "locations"

type firestoreLocationRepository struct {
	client *firestore.Client
}

func NewFirestoreLocationRepository(client *firestore.Client) repository.LocationRepository {
	return &firestoreLocationRepository{
		client: client,
	}
}

func (r *firestoreLocationRepository) Create(ctx context.Context, location *entity.Location) error {
	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	location.CreatedAt = time.Now()

	_, err := r.client.Collection(locationsCollection).Doc(location.ID).Set(ctx, location)
	if err != nil {
		return errors.Internal("Failed to save location", err)
	}
	return nil
}

func (r *firestoreLocationRepository) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	doc, err := r.client.Collection(locationsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Location", err)
		}
		return nil, errors.Internal("Failed to get location", err)
	}

	var location entity.Location
	if err := doc.DataTo(&location); err != nil {
		return nil, errors.Internal("Failed to parse location data", err)
	}
	location.ID = doc.Ref.ID
	return &location, nil
}

func (r *firestoreLocationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Location, error) {
	docs, err := r.client.Collection(locationsCollection).
		Where("userId", "==", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list locations", err)
	}

	locations := make([]*entity.Location, 0, len(docs))
	for _, doc := range docs {
		var location entity.Location
		if err := doc.DataTo(&location); err != nil {
			return nil, errors.Internal("Failed to parse location data", err)
		}
		location.ID = doc.Ref.ID
		locations = append(locations, &location)
	}
	return locations, nil
}

func (r *firestoreLocationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(locationsCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete location", err)
	}
	return nil
}
