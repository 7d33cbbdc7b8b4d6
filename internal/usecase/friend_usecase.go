package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

const maxProfileLookups = 8

// FriendUseCase moves a pair of profiles through
// none -> pending(requester -> target) -> friends, or back to none on decline.
//
// Accepting writes the two profile documents separately. If the second write
// fails the friendship is one-sided until someone repeats the accept; there
// is no rollback.
type FriendUseCase struct {
	profileRepo repository.ProfileRepository
}

func NewFriendUseCase(profileRepo repository.ProfileRepository) *FriendUseCase {
	return &FriendUseCase{
		profileRepo: profileRepo,
	}
}

func (uc *FriendUseCase) SendFriendRequest(ctx context.Context, actorID, targetID string) error {
	if actorID == "" {
		return errors.AuthRequired()
	}
	if targetID == "" || targetID == actorID {
		return errors.BadRequest("You cannot send a friend request to yourself", nil)
	}

	target, err := uc.profileRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.HasFriend(actorID) {
		return errors.Conflict("You are already friends")
	}

	if err := uc.profileRepo.AddFriendRequest(ctx, targetID, actorID); err != nil {
		logger.Error("Friend request %s -> %s failed: %v", actorID, targetID, err)
		return err
	}
	return nil
}

// AcceptFriendRequest is run by the target of a pending request.
func (uc *FriendUseCase) AcceptFriendRequest(ctx context.Context, actorID, requesterID string) error {
	if actorID == "" {
		return errors.AuthRequired()
	}

	target, err := uc.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !target.HasFriendRequestFrom(requesterID) {
		return errors.Conflict("There is no pending friend request from this user")
	}

	if err := uc.profileRepo.AcceptFriendRequest(ctx, actorID, requesterID); err != nil {
		logger.Error("Accept friend request %s -> %s failed: %v", requesterID, actorID, err)
		return err
	}

	if err := uc.profileRepo.AddFriend(ctx, requesterID, actorID); err != nil {
		logger.Error("Friendship %s <-> %s is one-sided, second write failed: %v", requesterID, actorID, err)
		return errors.Internal("Failed to complete friend request", err)
	}
	return nil
}

func (uc *FriendUseCase) DeclineFriendRequest(ctx context.Context, actorID, requesterID string) error {
	if actorID == "" {
		return errors.AuthRequired()
	}

	if err := uc.profileRepo.RemoveFriendRequest(ctx, actorID, requesterID); err != nil {
		logger.Error("Decline friend request %s -> %s failed: %v", requesterID, actorID, err)
		return err
	}
	return nil
}

// ListFriendRequests resolves the profiles of everyone with a pending request
// to actorID, looking them up concurrently.
func (uc *FriendUseCase) ListFriendRequests(ctx context.Context, actorID string) ([]*entity.Profile, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}

	profile, err := uc.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return uc.resolveProfiles(ctx, profile.FriendRequests)
}

func (uc *FriendUseCase) ListFriends(ctx context.Context, actorID string) ([]*entity.Profile, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}

	profile, err := uc.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return uc.resolveProfiles(ctx, profile.Friends)
}

// resolveProfiles keeps the order of ids. Profiles that no longer exist are
// skipped.
func (uc *FriendUseCase) resolveProfiles(ctx context.Context, ids []string) ([]*entity.Profile, error) {
	found := make([]*entity.Profile, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProfileLookups)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			p, err := uc.profileRepo.GetByID(gctx, id)
			if err != nil {
				if errors.Is(err, "NOT_FOUND") {
					return nil
				}
				return err
			}
			found[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Resolving profiles failed: %v", err)
		return nil, err
	}

	profiles := make([]*entity.Profile, 0, len(ids))
	for _, p := range found {
		if p != nil {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}
