package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/domain/entity"
	"gigmarket/pkg/errors"
)

const defaultImage = "/assets/default-profile.png"

func TestUpdateProfileKeepsBlankFields(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo(&entity.Profile{ID: "u1", FirstName: "Ana", LastName: "Lima", Bio: "old"})
	states := &fakeStates{}
	uc := NewProfileUseCase(profiles, &fakeReviewRepo{}, newFakePostingRepo(), &fakeFileService{}, states, defaultImage)

	p, err := uc.UpdateProfile(ctx, "u1", UpdateProfileInput{Bio: "new bio", LastName: "  "})
	require.NoError(t, err)
	assert.Equal(t, "new bio", p.Bio)
	assert.Equal(t, "Lima", p.LastName)

	require.Len(t, states.published, 1)
	assert.Equal(t, "Ana Lima", states.published[0].DisplayName)
	assert.Equal(t, defaultImage, states.published[0].ProfileImageURL)

	_, err = uc.UpdateProfile(ctx, "", UpdateProfileInput{Bio: "x"})
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestUploadProfileImage(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo(&entity.Profile{ID: "u1", FirstName: "Ana"})
	files := &fakeFileService{}
	uc := NewProfileUseCase(profiles, &fakeReviewRepo{}, newFakePostingRepo(), files, &fakeStates{}, defaultImage)

	assert.Equal(t, defaultImage, uc.ImageURL(profiles.get("u1")))

	p, err := uc.UploadProfileImage(ctx, "u1", strings.NewReader("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, files.uploads[0], uc.ImageURL(p))
	assert.Contains(t, files.uploads[0], "/profiles/")

	_, err = uc.UploadProfileImage(ctx, "u1", strings.NewReader("doc"), "text/plain")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestGetProfilePage(t *testing.T) {
	ctx := context.Background()
	profiles := newFakeProfileRepo(&entity.Profile{ID: "u1", FirstName: "Ana"})
	reviews := &fakeReviewRepo{}
	require.NoError(t, reviews.Create(ctx, &entity.Review{RevieweeID: "u1", Rating: 5, Comment: "great"}))
	postings := newFakePostingRepo(
		&entity.Posting{ID: "p1", PostingUID: "u1"},
		&entity.Posting{ID: "p2", PostingUID: "u2"},
	)
	uc := NewProfileUseCase(profiles, reviews, postings, &fakeFileService{}, &fakeStates{}, defaultImage)

	page, err := uc.GetProfilePage(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", page.Profile.ID)
	assert.Equal(t, defaultImage, page.ImageURL)
	assert.Len(t, page.Reviews, 1)
	require.Len(t, page.Postings, 1)
	assert.Equal(t, "p1", page.Postings[0].ID)

	_, err = uc.GetProfilePage(ctx, "missing")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}
