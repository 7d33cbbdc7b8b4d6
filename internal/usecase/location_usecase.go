package usecase

import (
	"context"
	"strings"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

type LocationUseCase struct {
	locationRepo repository.LocationRepository
}

func NewLocationUseCase(locationRepo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{
		locationRepo: locationRepo,
	}
}

func (uc *LocationUseCase) SaveLocation(ctx context.Context, actorID string, lat, lng float64, name string) (*entity.Location, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}
	if lat < -90 || lat > 90 {
		return nil, errors.BadRequest("Latitude must be between -90 and 90", nil)
	}
	if lng < -180 || lng > 180 {
		return nil, errors.BadRequest("Longitude must be between -180 and 180", nil)
	}

	location := &entity.Location{
		Lat:    lat,
		Lng:    lng,
		Name:   strings.TrimSpace(name),
		UserID: actorID,
	}
	if err := uc.locationRepo.Create(ctx, location); err != nil {
		logger.Error("Save location for %s failed: %v", actorID, err)
		return nil, err
	}
	return location, nil
}

func (uc *LocationUseCase) ListLocations(ctx context.Context, actorID string) ([]*entity.Location, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}
	return uc.locationRepo.ListByUser(ctx, actorID)
}

func (uc *LocationUseCase) DeleteLocation(ctx context.Context, actorID, id string) error {
	if actorID == "" {
		return errors.AuthRequired()
	}

	location, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if location.UserID != actorID {
		return errors.Forbidden("You can only delete your own locations", nil)
	}

	if err := uc.locationRepo.Delete(ctx, id); err != nil {
		logger.Error("Delete location %s failed: %v", id, err)
		return err
	}
	return nil
}
