package handler

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/usecase"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
	"gigmarket/pkg/response"
)

const maxImageSize = 5 * 1024 * 1024

type ProfileHandler struct {
	profileUseCase *usecase.ProfileUseCase
}

func NewProfileHandler(profileUseCase *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

type profileResponse struct {
	ID              string  `json:"id"`
	DisplayName     string  `json:"displayName"`
	FirstName       string  `json:"firstName"`
	MiddleName      string  `json:"middleName,omitempty"`
	LastName        string  `json:"lastName"`
	Bio             string  `json:"bio"`
	ProfileImageURL string  `json:"profileImageUrl"`
	Rating          float64 `json:"rating"`
	NumRatings      int     `json:"numRatings"`
	Friends         int     `json:"friends"`
}

func (h *ProfileHandler) GetMe(c echo.Context) error {
	return h.getProfile(c, getUserIDFromContext(c))
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	return h.getProfile(c, c.Param("id"))
}

func (h *ProfileHandler) getProfile(c echo.Context, id string) error {
	profile, err := h.profileUseCase.GetProfile(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profileResponse{
		ID:              profile.ID,
		DisplayName:     profile.DisplayName(),
		FirstName:       profile.FirstName,
		MiddleName:      profile.MiddleName,
		LastName:        profile.LastName,
		Bio:             profile.Bio,
		ProfileImageURL: h.profileUseCase.ImageURL(profile),
		Rating:          profile.Rating,
		NumRatings:      profile.NumRatings,
		Friends:         len(profile.Friends),
	})
}

func (h *ProfileHandler) GetProfilePage(c echo.Context) error {
	page, err := h.profileUseCase.GetProfilePage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, page)
}

type updateProfileRequest struct {
	FirstName       string `json:"firstName" validate:"max=60"`
	MiddleName      string `json:"middleName" validate:"max=60"`
	LastName        string `json:"lastName" validate:"max=60"`
	Bio             string `json:"bio" validate:"max=1000"`
	ProfileImageURL string `json:"profileImageUrl" validate:"omitempty,url"`
}

func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.profileUseCase.UpdateProfile(c.Request().Context(), getUserIDFromContext(c), usecase.UpdateProfileInput{
		FirstName:       req.FirstName,
		MiddleName:      req.MiddleName,
		LastName:        req.LastName,
		Bio:             req.Bio,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *ProfileHandler) UploadMyImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid image", err))
	}
	if file.Size > maxImageSize {
		return response.Error(c, errors.BadRequest("Image exceeds the 5MB limit", nil))
	}

	src, err := file.Open()
	if err != nil {
		logger.Error("Error opening upload: %v", err)
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	profile, err := h.profileUseCase.UploadProfileImage(c.Request().Context(), getUserIDFromContext(c), src, file.Header.Get("Content-Type"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}
