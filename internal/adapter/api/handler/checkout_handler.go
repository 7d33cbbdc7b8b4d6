package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/usecase"
	"gigmarket/pkg/errors"
)

// CheckoutHandler serves the public checkout endpoint. Its wire format is
// fixed by the web client ({id} or {error}) and does not use the standard
// response envelope.
type CheckoutHandler struct {
	purchaseUseCase *usecase.PurchaseUseCase
}

var checkoutHandler *CheckoutHandler

func NewCheckoutHandler(purchaseUseCase *usecase.PurchaseUseCase) *CheckoutHandler {
	return &CheckoutHandler{
		purchaseUseCase: purchaseUseCase,
	}
}

func SetupCheckoutHandler(purchaseUseCase *usecase.PurchaseUseCase) {
	checkoutHandler = NewCheckoutHandler(purchaseUseCase)
}

func GetCheckoutHandler() *CheckoutHandler {
	return checkoutHandler
}

type checkoutItem struct {
	ID          string       `json:"id"`
	PostingName string       `json:"postingName"`
	Price       entity.Price `json:"price"`
}

type checkoutRequest struct {
	PostingID   string        `json:"postingId"`
	PostingName string        `json:"postingName"`
	Price       entity.Price  `json:"price"`
	Posting     *checkoutItem `json:"posting"`
}

func (r checkoutRequest) item() checkoutItem {
	if r.PostingID == "" && r.PostingName == "" && r.Posting != nil {
		return *r.Posting
	}
	return checkoutItem{ID: r.PostingID, PostingName: r.PostingName, Price: r.Price}
}

func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return checkoutError(c, errors.BadRequest("Invalid request body", err))
	}

	item := req.item()
	session, err := h.purchaseUseCase.CreateCheckoutSession(c.Request().Context(), item.ID, item.PostingName, item.Price)
	if err != nil {
		return checkoutError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id": session.ID,
	})
}

func checkoutError(c echo.Context, err error) error {
	status := errors.StatusOf(err)
	message := http.StatusText(status)

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}

	return c.JSON(status, map[string]string{
		"error": message,
	})
}
