package usecase

import (
	"context"
	"strings"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

type ReviewUseCase struct {
	reviewRepo  repository.ReviewRepository
	profileRepo repository.ProfileRepository
}

func NewReviewUseCase(reviewRepo repository.ReviewRepository, profileRepo repository.ProfileRepository) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:  reviewRepo,
		profileRepo: profileRepo,
	}
}

type CreateReviewInput struct {
	RevieweeID string
	Rating     int
	Comment    string
}

func (uc *ReviewUseCase) CreateReview(ctx context.Context, reviewerID string, input CreateReviewInput) (*entity.Review, error) {
	if reviewerID == "" {
		return nil, errors.AuthRequired()
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, errors.BadRequest("Comment is required", nil)
	}
	if input.RevieweeID == reviewerID {
		return nil, errors.BadRequest("You cannot review yourself", nil)
	}

	reviewee, err := uc.profileRepo.GetByID(ctx, input.RevieweeID)
	if err != nil {
		return nil, err
	}
	reviewer, err := uc.profileRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	review := &entity.Review{
		Rating:       input.Rating,
		Comment:      input.Comment,
		ReviewerUID:  reviewerID,
		ReviewerName: reviewer.DisplayName(),
		RevieweeID:   reviewee.ID,
		RevieweeName: reviewee.DisplayName(),
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		logger.Error("Create review for %s failed: %v", reviewee.ID, err)
		return nil, err
	}

	rating, count := RunningAverage(reviewee.Rating, reviewee.NumRatings, input.Rating)
	if err := uc.profileRepo.SetRating(ctx, reviewee.ID, rating, count); err != nil {
		logger.Error("Updating rating of %s failed: %v", reviewee.ID, err)
	}

	return review, nil
}

func (uc *ReviewUseCase) ListReviewsForProfile(ctx context.Context, profileID string) ([]*entity.Review, error) {
	return uc.reviewRepo.ListByReviewee(ctx, profileID)
}

// RunningAverage folds one more rating into an average of count ratings.
func RunningAverage(avg float64, count, rating int) (float64, int) {
	if count < 0 {
		count = 0
	}
	total := avg*float64(count) + float64(rating)
	count++
	return total / float64(count), count
}
