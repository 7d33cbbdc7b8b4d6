package payment

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"gigmarket/internal/domain/service"
)

const postingMetadataKey = "postingId"

type StripeCheckout struct {
	api      *client.API
	currency string
}

func NewStripeCheckout(secretKey string) *StripeCheckout {
	return &StripeCheckout{
		api:      client.New(secretKey, nil),
		currency: string(stripe.CurrencyUSD),
	}
}

func (s *StripeCheckout) CreateSession(ctx context.Context, item service.CheckoutItem, successURL, cancelURL string) (*service.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(item.Name),
					},
					UnitAmount: stripe.Int64(item.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	if item.PostingID != "" {
		params.ClientReferenceID = stripe.String(item.PostingID)
		params.AddMetadata(postingMetadataKey, item.PostingID)
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}

	return &service.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (s *StripeCheckout) SessionStatus(ctx context.Context, sessionID string) (*service.CheckoutStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, err
	}

	postingID := sess.ClientReferenceID
	if postingID == "" {
		postingID = sess.Metadata[postingMetadataKey]
	}
	return &service.CheckoutStatus{
		Paid:        sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		PostingID:   postingID,
		AmountTotal: sess.AmountTotal,
	}, nil
}
