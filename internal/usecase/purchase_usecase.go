package usecase

import (
	"context"
	"math"
	"net/http"
	"strings"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/internal/domain/service"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

type PurchaseUseCase struct {
	checkout    service.CheckoutProvider
	postingRepo repository.PostingRepository
	orderRepo   repository.OrderRepository
	returnURL   string
}

// NewPurchaseUseCase sends buyers back to returnURL whether they pay or
// cancel.
func NewPurchaseUseCase(
	checkout service.CheckoutProvider,
	postingRepo repository.PostingRepository,
	orderRepo repository.OrderRepository,
	returnURL string,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		checkout:    checkout,
		postingRepo: postingRepo,
		orderRepo:   orderRepo,
		returnURL:   returnURL,
	}
}

// CreateCheckoutSession opens a payment session. With a postingID the
// posting's stored name and price are charged and the session is bound to
// it; without one the session is unbound and cannot complete a purchase.
func (uc *PurchaseUseCase) CreateCheckoutSession(ctx context.Context, postingID, postingName string, price entity.Price) (*service.CheckoutSession, error) {
	if postingID != "" {
		posting, err := uc.postingRepo.GetByID(ctx, postingID)
		if err != nil {
			return nil, err
		}
		postingName, price = posting.PostingName, posting.Price
	}

	postingName = strings.TrimSpace(postingName)
	if postingName == "" {
		return nil, errors.BadRequest("postingName is required", nil)
	}
	cents, err := priceInCents(price)
	if err != nil {
		return nil, err
	}

	session, err := uc.checkout.CreateSession(ctx, service.CheckoutItem{
		PostingID:  postingID,
		Name:       postingName,
		UnitAmount: cents,
	}, uc.returnURL, uc.returnURL)
	if err != nil {
		logger.Upstream("checkout.create", postingName, err)
		return nil, errors.Internal("Failed to create checkout session", err)
	}
	return session, nil
}

func priceInCents(price entity.Price) (int64, error) {
	amount, ok := price.Float()
	if !ok {
		return 0, errors.BadRequest("price must be a number", nil)
	}
	cents := int64(math.Round(amount * 100))
	if cents <= 0 {
		return 0, errors.BadRequest("price must be greater than zero", nil)
	}
	return cents, nil
}

// CompletePurchase turns a paid checkout session into an order and removes
// the posting. The session must have been opened for this posting at its
// current price, and each session completes at most one purchase. The two
// writes are independent: if removing the posting fails the order is kept.
func (uc *PurchaseUseCase) CompletePurchase(ctx context.Context, actorID, postingID, sessionID string) (*entity.Order, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}
	if sessionID == "" {
		return nil, errors.BadRequest("Checkout session is required", nil)
	}

	posting, err := uc.postingRepo.GetByID(ctx, postingID)
	if err != nil {
		return nil, err
	}
	if posting.PostingUID == actorID {
		return nil, errors.BadRequest("You cannot buy your own posting", nil)
	}

	st, err := uc.checkout.SessionStatus(ctx, sessionID)
	if err != nil {
		logger.Upstream("checkout.status", sessionID, err)
		return nil, errors.Internal("Failed to verify payment", err)
	}
	if !st.Paid {
		return nil, errors.New("PAYMENT_REQUIRED", "Payment has not been completed", http.StatusPaymentRequired, service.ErrSessionNotPaid)
	}
	if st.PostingID != posting.ID {
		logger.Warn("Session %s was opened for posting %q, not %s", sessionID, st.PostingID, posting.ID)
		return nil, errors.New("BAD_REQUEST", "Checkout session was not opened for this posting", http.StatusBadRequest, service.ErrSessionMismatch)
	}
	cents, err := priceInCents(posting.Price)
	if err != nil || st.AmountTotal != cents {
		logger.Warn("Session %s paid %d cents, posting %s costs %q", sessionID, st.AmountTotal, posting.ID, posting.Price)
		return nil, errors.New("CONFLICT", "Amount paid does not match the posting price", http.StatusConflict, service.ErrSessionMismatch)
	}

	order := entity.NewOrderFromPosting(posting, actorID, sessionID)
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		logger.Error("Recording order for posting %s failed: %v", postingID, err)
		return nil, err
	}

	if err := uc.postingRepo.Delete(ctx, postingID); err != nil {
		logger.Error("Order %s recorded but posting %s was not removed: %v", order.ID, postingID, err)
		return nil, err
	}
	return order, nil
}

func (uc *PurchaseUseCase) ListOrders(ctx context.Context, actorID string) ([]*entity.Order, error) {
	if actorID == "" {
		return nil, errors.AuthRequired()
	}
	return uc.orderRepo.ListByBuyer(ctx, actorID)
}
