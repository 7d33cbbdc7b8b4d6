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

const profilesCollection = "profiles"

type firestoreProfileRepository struct {
	client *firestore.Client
}

func NewFirestoreProfileRepository(client *firestore.Client) repository.ProfileRepository {
	return &firestoreProfileRepository{
		client: client,
	}
}

func (r *firestoreProfileRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(profilesCollection).Doc(id)
}

func (r *firestoreProfileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	if profile.Friends == nil {
		profile.Friends = []string{}
	}
	if profile.FriendRequests == nil {
		profile.FriendRequests = []string{}
	}

	_, err := r.doc(profile.ID).Set(ctx, profile)
	if err != nil {
		return errors.Internal("Failed to create profile", err)
	}
	return nil
}

func (r *firestoreProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	doc, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Profile", err)
		}
		return nil, errors.Internal("Failed to get profile", err)
	}

	var profile entity.Profile
	if err := doc.DataTo(&profile); err != nil {
		return nil, errors.Internal("Failed to parse profile data", err)
	}
	profile.ID = doc.Ref.ID

	return &profile, nil
}

func (r *firestoreProfileRepository) Update(ctx context.Context, id string, update repository.ProfileUpdate) error {
	updates := []firestore.Update{{Path: "updatedAt", Value: time.Now()}}
	if update.FirstName != nil {
		updates = append(updates, firestore.Update{Path: "firstName", Value: *update.FirstName})
	}
	if update.MiddleName != nil {
		updates = append(updates, firestore.Update{Path: "middleName", Value: *update.MiddleName})
	}
	if update.LastName != nil {
		updates = append(updates, firestore.Update{Path: "lastName", Value: *update.LastName})
	}
	if update.Bio != nil {
		updates = append(updates, firestore.Update{Path: "bio", Value: *update.Bio})
	}
	if update.ProfileImageURL != nil {
		updates = append(updates, firestore.Update{Path: "profileImageUrl", Value: *update.ProfileImageURL})
	}

	return r.update(ctx, id, "Failed to update profile", updates)
}

func (r *firestoreProfileRepository) SetRating(ctx context.Context, id string, rating float64, numRatings int) error {
	return r.update(ctx, id, "Failed to update profile rating", []firestore.Update{
		{Path: "rating", Value: rating},
		{Path: "numRatings", Value: numRatings},
		{Path: "updatedAt", Value: time.Now()},
	})
}

func (r *firestoreProfileRepository) AddFriendRequest(ctx context.Context, targetID, requesterID string) error {
	return r.update(ctx, targetID, "Failed to send friend request", []firestore.Update{
		{Path: "friendRequests", Value: firestore.ArrayUnion(requesterID)},
	})
}

func (r *firestoreProfileRepository) RemoveFriendRequest(ctx context.Context, targetID, requesterID string) error {
	return r.update(ctx, targetID, "Failed to remove friend request", []firestore.Update{
		{Path: "friendRequests", Value: firestore.ArrayRemove(requesterID)},
	})
}

func (r *firestoreProfileRepository) AcceptFriendRequest(ctx context.Context, targetID, requesterID string) error {
	return r.update(ctx, targetID, "Failed to accept friend request", []firestore.Update{
		{Path: "friendRequests", Value: firestore.ArrayRemove(requesterID)},
		{Path: "friends", Value: firestore.ArrayUnion(requesterID)},
	})
}

func (r *firestoreProfileRepository) AddFriend(ctx context.Context, profileID, friendID string) error {
	return r.update(ctx, profileID, "Failed to add friend", []firestore.Update{
		{Path: "friends", Value: firestore.ArrayUnion(friendID)},
	})
}

func (r *firestoreProfileRepository) update(ctx context.Context, id, message string, updates []firestore.Update) error {
	_, err := r.doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Profile", err)
		}
		return errors.Internal(message, err)
	}
	return nil
}
