package repository

import (
	"context"

	"gigmarket/internal/domain/entity"
)

// ProfileUpdate carries the owner-editable fields. Nil means unchanged.
type ProfileUpdate struct {
	FirstName       *string
	MiddleName      *string
	LastName        *string
	Bio             *string
	ProfileImageURL *string
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	Update(ctx context.Context, id string, update ProfileUpdate) error
	SetRating(ctx context.Context, id string, rating float64, numRatings int) error

	// Set-membership writes. Each call is one document write; adding an id
	// that is already present (or removing one that is absent) is a no-op.
	AddFriendRequest(ctx context.Context, targetID, requesterID string) error
	RemoveFriendRequest(ctx context.Context, targetID, requesterID string) error
	AcceptFriendRequest(ctx context.Context, targetID, requesterID string) error
	AddFriend(ctx context.Context, profileID, friendID string) error
}
