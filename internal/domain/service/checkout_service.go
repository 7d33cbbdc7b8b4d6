package service

import (
	"context"
	"errors"
)

// ErrSessionNotPaid is returned by CompletePurchase when the provider has
// not confirmed payment for the session.
var ErrSessionNotPaid = errors.New("checkout session is not paid")

// ErrSessionMismatch is returned when a paid session was opened for a
// different posting or a different amount.
var ErrSessionMismatch = errors.New("checkout session does not match posting")

type CheckoutItem struct {
	// PostingID is recorded on the session so a payment can only complete
	// the purchase it was opened for. Empty for unbound sessions.
	PostingID string
	Name      string
	// UnitAmount is in the smallest currency unit (cents).
	UnitAmount int64
}

type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutStatus is what the provider reports about an existing session.
type CheckoutStatus struct {
	Paid        bool
	PostingID   string
	AmountTotal int64
}

type CheckoutProvider interface {
	CreateSession(ctx context.Context, item CheckoutItem, successURL, cancelURL string) (*CheckoutSession, error)
	SessionStatus(ctx context.Context, sessionID string) (*CheckoutStatus, error)
}
