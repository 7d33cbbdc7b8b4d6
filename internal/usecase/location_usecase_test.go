package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket/pkg/errors"
)

func TestLocations(t *testing.T) {
	ctx := context.Background()
	uc := NewLocationUseCase(newFakeLocationRepo())

	loc, err := uc.SaveLocation(ctx, "u1", 40.7, -74.0, " New York ")
	require.NoError(t, err)
	assert.Equal(t, "New York", loc.Name)

	_, err = uc.SaveLocation(ctx, "u1", 91, 0, "nowhere")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	_, err = uc.SaveLocation(ctx, "u1", 0, -181, "nowhere")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	_, err = uc.SaveLocation(ctx, "", 0, 0, "x")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	assert.True(t, errors.Is(uc.DeleteLocation(ctx, "u2", loc.ID), "FORBIDDEN"))

	list, err := uc.ListLocations(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.DeleteLocation(ctx, "u1", loc.ID))
	list, err = uc.ListLocations(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
