package handler

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/usecase"
	"gigmarket/pkg/response"
)

type LocationHandler struct {
	locationUseCase *usecase.LocationUseCase
}

func NewLocationHandler(locationUseCase *usecase.LocationUseCase) *LocationHandler {
	return &LocationHandler{
		locationUseCase: locationUseCase,
	}
}

type saveLocationRequest struct {
	Lat  *float64 `json:"lat" validate:"required"`
	Lng  *float64 `json:"lng" validate:"required"`
	Name string   `json:"name" validate:"max=120"`
}

func (h *LocationHandler) SaveLocation(c echo.Context) error {
	var req saveLocationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	location, err := h.locationUseCase.SaveLocation(c.Request().Context(), getUserIDFromContext(c), *req.Lat, *req.Lng, req.Name)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, location)
}

func (h *LocationHandler) ListLocations(c echo.Context) error {
	locations, err := h.locationUseCase.ListLocations(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, locations)
}

func (h *LocationHandler) DeleteLocation(c echo.Context) error {
	if err := h.locationUseCase.DeleteLocation(c.Request().Context(), getUserIDFromContext(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Location deleted",
	})
}
