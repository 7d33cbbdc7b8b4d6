package usecase

import (
	"context"
	"strings"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/internal/infrastructure/authstate"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
)

type AuthUseCase struct {
	profileRepo     repository.ProfileRepository
	firebaseAuth    FirebaseAuthClient
	states          AuthStatePublisher
	defaultImageURL string
}

func NewAuthUseCase(profileRepo repository.ProfileRepository, firebaseAuth FirebaseAuthClient, states AuthStatePublisher, defaultImageURL string) *AuthUseCase {
	return &AuthUseCase{
		profileRepo:     profileRepo,
		firebaseAuth:    firebaseAuth,
		states:          states,
		defaultImageURL: defaultImageURL,
	}
}

type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	MiddleName string
	LastName   string
}

type AuthResult struct {
	Profile      *entity.Profile `json:"profile"`
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	profile := &entity.Profile{
		Email:      strings.TrimSpace(input.Email),
		FirstName:  strings.TrimSpace(input.FirstName),
		MiddleName: strings.TrimSpace(input.MiddleName),
		LastName:   strings.TrimSpace(input.LastName),
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, profile.Email, input.Password, profile.DisplayName())
	if err != nil {
		logger.Error("Create user failed for %s: %v", profile.Email, err)
		return nil, errors.BadRequest("Could not create account", err)
	}
	profile.ID = uid

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		logger.Error("Create profile failed for %s: %v", uid, err)
		return nil, err
	}

	token, refresh, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, profile.Email, input.Password)
	if err != nil {
		logger.Error("Sign-in after register failed for %s: %v", uid, err)
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	uc.states.Publish(ctx, ProfileState(profile, uc.defaultImageURL))

	return &AuthResult{
		Profile:      profile,
		Token:        token,
		RefreshToken: refresh,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, refresh, err := uc.firebaseAuth.SignInWithEmailPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		logger.Warn("Login failed: %v", err)
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.firebaseAuth.VerifyToken(ctx, token)
	if err != nil {
		logger.Error("Token verification failed: %v", err)
		return nil, errors.Internal("Failed to verify token", err)
	}

	profile, err := uc.profileRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	uc.states.Publish(ctx, ProfileState(profile, uc.defaultImageURL))

	return &AuthResult{
		Profile:      profile,
		Token:        token,
		RefreshToken: refresh,
	}, nil
}

func (uc *AuthUseCase) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	token, refresh, err := uc.firebaseAuth.RefreshIDToken(ctx, refreshToken)
	if err != nil {
		return "", "", errors.Unauthorized("Invalid refresh token", err)
	}
	return token, refresh, nil
}

// Logout revokes the user's refresh tokens and ends every auth-state
// subscription held for them.
func (uc *AuthUseCase) Logout(ctx context.Context, uid string) error {
	if uid == "" {
		return errors.AuthRequired()
	}

	uc.states.SignOut(ctx, uid)

	if err := uc.firebaseAuth.RevokeTokens(ctx, uid); err != nil {
		logger.Error("Revoke tokens failed for %s: %v", uid, err)
		return errors.Internal("Failed to sign out", err)
	}
	return nil
}

// ProfileState is the auth-state view of a signed-in profile.
func ProfileState(p *entity.Profile, defaultImageURL string) authstate.State {
	return authstate.State{
		UserID:          p.ID,
		DisplayName:     p.DisplayName(),
		ProfileImageURL: p.ImageURL(defaultImageURL),
		SignedIn:        true,
	}
}
