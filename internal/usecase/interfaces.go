package usecase

import (
	"context"
	"time"

	"gigmarket/internal/infrastructure/authstate"
)

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	RevokeTokens(ctx context.Context, uid string) error
	SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error)
	RefreshIDToken(ctx context.Context, refreshToken string) (string, string, error)
}

// AuthStatePublisher is the part of the auth-state hub the use cases write to.
type AuthStatePublisher interface {
	Publish(ctx context.Context, s authstate.State)
	SignOut(ctx context.Context, uid string)
}

// MessageLimiter throttles chat sends per user.
type MessageLimiter interface {
	Allow(key, action string) (bool, time.Duration)
}
