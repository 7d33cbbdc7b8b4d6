package handler

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/usecase"
	"gigmarket/pkg/response"
)

type FriendHandler struct {
	friendUseCase *usecase.FriendUseCase
}

func NewFriendHandler(friendUseCase *usecase.FriendUseCase) *FriendHandler {
	return &FriendHandler{
		friendUseCase: friendUseCase,
	}
}

type friendSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	ImageURL    string `json:"profileImageUrl,omitempty"`
}

func summarize(profiles []*entity.Profile) []friendSummary {
	out := make([]friendSummary, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, friendSummary{
			ID:          p.ID,
			DisplayName: p.DisplayName(),
			ImageURL:    p.ImageURL(""),
		})
	}
	return out
}

func (h *FriendHandler) SendRequest(c echo.Context) error {
	if err := h.friendUseCase.SendFriendRequest(c.Request().Context(), getUserIDFromContext(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"message": "Friend request sent",
	})
}

func (h *FriendHandler) AcceptRequest(c echo.Context) error {
	if err := h.friendUseCase.AcceptFriendRequest(c.Request().Context(), getUserIDFromContext(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Friend request accepted",
	})
}

func (h *FriendHandler) DeclineRequest(c echo.Context) error {
	if err := h.friendUseCase.DeclineFriendRequest(c.Request().Context(), getUserIDFromContext(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Friend request declined",
	})
}

func (h *FriendHandler) ListRequests(c echo.Context) error {
	profiles, err := h.friendUseCase.ListFriendRequests(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summarize(profiles))
}

func (h *FriendHandler) ListFriends(c echo.Context) error {
	profiles, err := h.friendUseCase.ListFriends(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summarize(profiles))
}
