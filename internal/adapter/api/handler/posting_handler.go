package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/usecase"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
	"gigmarket/pkg/response"
	"gigmarket/pkg/utils"
)

type PostingHandler struct {
	postingUseCase *usecase.PostingUseCase
}

func NewPostingHandler(postingUseCase *usecase.PostingUseCase) *PostingHandler {
	return &PostingHandler{
		postingUseCase: postingUseCase,
	}
}

type postingRequest struct {
	PostingName     string       `json:"postingName" form:"postingName" validate:"required,max=120"`
	Description     string       `json:"description" form:"description" validate:"required,max=2000"`
	Price           entity.Price `json:"price" form:"price" validate:"required,price"`
	ServiceType     string       `json:"serviceType" form:"serviceType" validate:"required,servicetype"`
	Category        string       `json:"category" form:"category" validate:"required,category"`
	PostingImageURL string       `json:"postingImageUrl" form:"postingImageUrl" validate:"omitempty,url"`
	Location        string       `json:"location" form:"location"`
}

func (r postingRequest) input() usecase.PostingInput {
	return usecase.PostingInput{
		PostingName:     r.PostingName,
		Description:     r.Description,
		Price:           r.Price,
		ServiceType:     r.ServiceType,
		Category:        r.Category,
		PostingImageURL: r.PostingImageURL,
		Location:        r.Location,
	}
}

// bindPosting accepts either a JSON body or a multipart form with an
// optional "image" file. The returned cleanup must be called once the
// upload has been consumed.
func bindPosting(c echo.Context) (postingRequest, *usecase.ImageUpload, func(), error) {
	var req postingRequest
	noop := func() {}

	if err := c.Bind(&req); err != nil {
		return req, nil, noop, err
	}
	if err := c.Validate(&req); err != nil {
		return req, nil, noop, err
	}

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return req, nil, noop, nil
	}

	file, err := c.FormFile("image")
	if err != nil {
		// Image is optional on multipart submissions.
		return req, nil, noop, nil
	}
	if file.Size > maxImageSize {
		return req, nil, noop, errors.BadRequest("Image exceeds the 5MB limit", nil)
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("Error opening posting image: %v", err)
		return req, nil, noop, errors.Internal("Unable to read file", err)
	}

	upload := &usecase.ImageUpload{
		File:        src,
		ContentType: file.Header.Get("Content-Type"),
	}
	return req, upload, func() { src.Close() }, nil
}

func (h *PostingHandler) CreatePosting(c echo.Context) error {
	req, image, cleanup, err := bindPosting(c)
	defer cleanup()
	if err != nil {
		return response.Error(c, err)
	}

	posting, err := h.postingUseCase.CreatePosting(c.Request().Context(), getUserIDFromContext(c), req.input(), image)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, posting)
}

func (h *PostingHandler) UpdatePosting(c echo.Context) error {
	req, image, cleanup, err := bindPosting(c)
	defer cleanup()
	if err != nil {
		return response.Error(c, err)
	}

	posting, err := h.postingUseCase.UpdatePosting(c.Request().Context(), getUserIDFromContext(c), c.Param("id"), req.input(), image)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, posting)
}

func (h *PostingHandler) DeletePosting(c echo.Context) error {
	if err := h.postingUseCase.DeletePosting(c.Request().Context(), getUserIDFromContext(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Posting deleted successfully",
	})
}

func (h *PostingHandler) GetPosting(c echo.Context) error {
	posting, err := h.postingUseCase.GetPosting(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, posting)
}

func (h *PostingHandler) ListPostings(c echo.Context) error {
	query := usecase.PostingQuery{
		Keyword:     c.QueryParam("q"),
		ServiceType: c.QueryParam("serviceType"),
		Category:    c.QueryParam("category"),
		Sort:        c.QueryParam("sort"),
	}

	if raw := strings.TrimSpace(c.QueryParam("maxPrice")); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return response.Error(c, errors.BadRequest("maxPrice must be a number", err))
		}
		query.MaxPrice = &maxPrice
	}

	items, page := h.postingUseCase.ListPostings(c.Request().Context(), query, utils.GetPageNumber(c))
	return response.Paginated(c, items, page)
}

func (h *PostingHandler) ListProfilePostings(c echo.Context) error {
	postings, err := h.postingUseCase.ListPostingsByOwner(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, postings)
}
