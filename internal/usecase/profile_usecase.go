package usecase

import (
	"context"
	"io"
	"strings"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/internal/domain/service"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/loader"
	"gigmarket/pkg/logger"
)

const profileImageFolder = "profiles"

type ProfileUseCase struct {
	profileRepo     repository.ProfileRepository
	reviewRepo      repository.ReviewRepository
	postingRepo     repository.PostingRepository
	fileService     service.FileUploadService
	states          AuthStatePublisher
	defaultImageURL string
}

func NewProfileUseCase(
	profileRepo repository.ProfileRepository,
	reviewRepo repository.ReviewRepository,
	postingRepo repository.PostingRepository,
	fileService service.FileUploadService,
	states AuthStatePublisher,
	defaultImageURL string,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo:     profileRepo,
		reviewRepo:      reviewRepo,
		postingRepo:     postingRepo,
		fileService:     fileService,
		states:          states,
		defaultImageURL: defaultImageURL,
	}
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, id string) (*entity.Profile, error) {
	return uc.profileRepo.GetByID(ctx, id)
}

// ImageURL returns the profile image or the default asset.
func (uc *ProfileUseCase) ImageURL(p *entity.Profile) string {
	return p.ImageURL(uc.defaultImageURL)
}

// UpdateProfileInput holds owner-editable fields. Empty strings leave the
// stored value alone.
type UpdateProfileInput struct {
	FirstName       string
	MiddleName      string
	LastName        string
	Bio             string
	ProfileImageURL string
}

func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, actorID string, input UpdateProfileInput) (*entity.Profile, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}

	update := repository.ProfileUpdate{
		FirstName:       nonEmpty(input.FirstName),
		MiddleName:      nonEmpty(input.MiddleName),
		LastName:        nonEmpty(input.LastName),
		Bio:             nonEmpty(input.Bio),
		ProfileImageURL: nonEmpty(input.ProfileImageURL),
	}
	if err := uc.profileRepo.Update(ctx, actorID, update); err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	uc.states.Publish(ctx, ProfileState(profile, uc.defaultImageURL))
	return profile, nil
}

func (uc *ProfileUseCase) UploadProfileImage(ctx context.Context, actorID string, file io.Reader, contentType string) (*entity.Profile, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}
	if !isImageContentType(contentType) {
		return nil, errors.BadRequest("Only image uploads are allowed", nil)
	}

	url, err := uc.fileService.UploadFile(ctx, file, contentType, profileImageFolder)
	if err != nil {
		logger.Error("Profile image upload failed for %s: %v", actorID, err)
		return nil, errors.Internal("Failed to upload image", err)
	}

	return uc.UpdateProfile(ctx, actorID, UpdateProfileInput{ProfileImageURL: url})
}

type ProfilePage struct {
	Profile  *entity.Profile   `json:"profile"`
	ImageURL string            `json:"imageUrl"`
	Reviews  []*entity.Review  `json:"reviews"`
	Postings []*entity.Posting `json:"postings"`
}

// GetProfilePage loads a profile, then the reviews it received, then the
// postings it owns. Each step waits for the previous one.
func (uc *ProfileUseCase) GetProfilePage(ctx context.Context, id string) (*ProfilePage, error) {
	res := loader.Run(ctx, func(ctx context.Context) (*ProfilePage, error) {
		profile, err := uc.profileRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		reviews, err := uc.reviewRepo.ListByReviewee(ctx, profile.ID)
		if err != nil {
			return nil, err
		}

		postings, err := uc.postingRepo.ListByOwner(ctx, profile.ID)
		if err != nil {
			return nil, err
		}

		return &ProfilePage{
			Profile:  profile,
			ImageURL: uc.ImageURL(profile),
			Reviews:  reviews,
			Postings: postings,
		}, nil
	})
	if !res.Ok() {
		if !errors.Is(res.Err, "NOT_FOUND") {
			logger.Error("Loading profile page %s failed: %v", id, res.Err)
		}
		return nil, res.Err
	}
	return res.Data, nil
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func isImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
