package usecase

import (
	"context"
	"io"
	"strings"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/internal/domain/service"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
	"gigmarket/pkg/utils"
)

const postingImageFolder = "postings"

type PostingUseCase struct {
	postingRepo repository.PostingRepository
	fileService service.FileUploadService
}

func NewPostingUseCase(postingRepo repository.PostingRepository, fileService service.FileUploadService) *PostingUseCase {
	return &PostingUseCase{
		postingRepo: postingRepo,
		fileService: fileService,
	}
}

type PostingInput struct {
	PostingName     string
	Description     string
	Price           entity.Price
	ServiceType     string
	Category        string
	PostingImageURL string
	Location        string
}

type ImageUpload struct {
	File        io.Reader
	ContentType string
}

func (in PostingInput) validate() error {
	if strings.TrimSpace(in.PostingName) == "" {
		return errors.BadRequest("Posting name is required", nil)
	}
	if strings.TrimSpace(in.Description) == "" {
		return errors.BadRequest("Description is required", nil)
	}
	price, ok := in.Price.Float()
	if !ok {
		return errors.BadRequest("Price must be a number", nil)
	}
	if price < 0 {
		return errors.BadRequest("Price cannot be negative", nil)
	}
	if !entity.ServiceType(in.ServiceType).Valid() {
		return errors.BadRequest("Invalid service type", nil)
	}
	if !entity.ValidCategory(in.Category) {
		return errors.BadRequest("Invalid category", nil)
	}
	return nil
}

func (uc *PostingUseCase) CreatePosting(ctx context.Context, actorID string, input PostingInput, image *ImageUpload) (*entity.Posting, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	posting := &entity.Posting{PostingUID: actorID}
	applyPostingInput(posting, input)

	if image != nil {
		url, err := uc.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		posting.PostingImageURL = &url
	}

	if err := uc.postingRepo.Create(ctx, posting); err != nil {
		logger.Error("Create posting failed for %s: %v", actorID, err)
		return nil, err
	}
	return posting, nil
}

func (uc *PostingUseCase) GetPosting(ctx context.Context, id string) (*entity.Posting, error) {
	return uc.postingRepo.GetByID(ctx, id)
}

func (uc *PostingUseCase) UpdatePosting(ctx context.Context, actorID, id string, input PostingInput, image *ImageUpload) (*entity.Posting, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	posting, err := uc.ownedPosting(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	previousImage := posting.PostingImageURL
	applyPostingInput(posting, input)
	if input.PostingImageURL == "" {
		posting.PostingImageURL = previousImage
	}

	if image != nil {
		url, err := uc.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		posting.PostingImageURL = &url
	}

	if err := uc.postingRepo.Update(ctx, posting); err != nil {
		logger.Error("Update posting %s failed: %v", id, err)
		return nil, err
	}

	if previousImage != nil && (posting.PostingImageURL == nil || *previousImage != *posting.PostingImageURL) {
		uc.deleteImage(*previousImage)
	}
	return posting, nil
}

func (uc *PostingUseCase) DeletePosting(ctx context.Context, actorID, id string) error {
	if actorID == "" {
		return errors.AuthRequired()
	}

	posting, err := uc.ownedPosting(ctx, actorID, id)
	if err != nil {
		return err
	}

	if err := uc.postingRepo.Delete(ctx, id); err != nil {
		logger.Error("Delete posting %s failed: %v", id, err)
		return err
	}

	if posting.PostingImageURL != nil {
		uc.deleteImage(*posting.PostingImageURL)
	}
	return nil
}

func (uc *PostingUseCase) ListPostingsByOwner(ctx context.Context, ownerID string) ([]*entity.Posting, error) {
	return uc.postingRepo.ListByOwner(ctx, ownerID)
}

// ListPostings fetches the collection, runs the query over it and returns
// the requested page. A failed fetch yields an empty page.
func (uc *PostingUseCase) ListPostings(ctx context.Context, query PostingQuery, page int) ([]*entity.Posting, utils.Page) {
	browser := uc.NewBrowser()
	browser.Load(ctx)
	browser.SetQuery(query)
	browser.GoToPage(page)
	return browser.Items(), browser.Page()
}

func (uc *PostingUseCase) NewBrowser() *PostingBrowser {
	return NewPostingBrowser(uc.postingRepo.List)
}

func (uc *PostingUseCase) ownedPosting(ctx context.Context, actorID, id string) (*entity.Posting, error) {
	posting, err := uc.postingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if posting.PostingUID != actorID {
		return nil, errors.Forbidden("You can only change your own postings", nil)
	}
	return posting, nil
}

func (uc *PostingUseCase) uploadImage(ctx context.Context, image *ImageUpload) (string, error) {
	if !isImageContentType(image.ContentType) {
		return "", errors.BadRequest("Only image uploads are allowed", nil)
	}
	url, err := uc.fileService.UploadFile(ctx, image.File, image.ContentType, postingImageFolder)
	if err != nil {
		logger.Error("Posting image upload failed: %v", err)
		return "", errors.Internal("Failed to upload image", err)
	}
	return url, nil
}

func (uc *PostingUseCase) deleteImage(url string) {
	go func() {
		if err := uc.fileService.DeleteFile(context.Background(), url); err != nil {
			logger.Warn("Failed to delete posting image %s: %v", url, err)
		}
	}()
}

func applyPostingInput(p *entity.Posting, in PostingInput) {
	p.PostingName = in.PostingName
	p.Description = in.Description
	p.Price = in.Price
	p.ServiceType = entity.ServiceType(in.ServiceType)
	p.Category = in.Category
	p.Location = in.Location
	if in.PostingImageURL != "" {
		url := in.PostingImageURL
		p.PostingImageURL = &url
	} else {
		p.PostingImageURL = nil
	}
}
