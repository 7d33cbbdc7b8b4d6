package handler

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/usecase"
	"gigmarket/pkg/response"
)

type OrderHandler struct {
	purchaseUseCase *usecase.PurchaseUseCase
}

func NewOrderHandler(purchaseUseCase *usecase.PurchaseUseCase) *OrderHandler {
	return &OrderHandler{
		purchaseUseCase: purchaseUseCase,
	}
}

type completePurchaseRequest struct {
	PostingID string `json:"postingId" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
}

func (h *OrderHandler) CompletePurchase(c echo.Context) error {
	var req completePurchaseRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.purchaseUseCase.CompletePurchase(c.Request().Context(), getUserIDFromContext(c), req.PostingID, req.SessionID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.purchaseUseCase.ListOrders(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, orders)
}
