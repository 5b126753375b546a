package services_test

import (
	"context"
	"testing"

	"stallfinder/internal/models"
	"stallfinder/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newFavoriteFixture(t *testing.T) (services.FavoriteService, *fakeFavoriteRepo, *fakeBathroomRepo) {
	t.Helper()
	bathroomRepo := &fakeBathroomRepo{}
	favoriteRepo := newFakeFavoriteRepo()
	service := services.NewFavoriteService(favoriteRepo, bathroomRepo, newTestLogger(t))
	return service, favoriteRepo, bathroomRepo
}

func TestFavoriteLifecycle(t *testing.T) {
	service, _, bathroomRepo := newFavoriteFixture(t)
	bathroom := addBathroom(t, bathroomRepo, "Olson 2F", models.GenderUnisex, 0, 0)
	user := &models.User{ID: "uid-1"}
	ctx := context.Background()

	isFavorite, err := service.IsFavorite(ctx, user, bathroom.ID)
	require.NoError(t, err)
	assert.False(t, isFavorite)

	require.NoError(t, service.AddFavorite(ctx, user, bathroom.ID))
	// Favoriting twice is a no-op, not an error.
	require.NoError(t, service.AddFavorite(ctx, user, bathroom.ID))

	isFavorite, err = service.IsFavorite(ctx, user, bathroom.ID)
	require.NoError(t, err)
	assert.True(t, isFavorite)

	favorites, err := service.FavoriteBathrooms(ctx, user)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, bathroom.ID, favorites[0].ID)

	require.NoError(t, service.RemoveFavorite(ctx, user, bathroom.ID))
	isFavorite, err = service.IsFavorite(ctx, user, bathroom.ID)
	require.NoError(t, err)
	assert.False(t, isFavorite)
}

func TestAddFavoriteUnknownBathroom(t *testing.T) {
	service, _, _ := newFavoriteFixture(t)
	user := &models.User{ID: "uid-1"}

	err := service.AddFavorite(context.Background(), user, primitive.NewObjectID())
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestFavoriteBathroomsSkipsDeletedBathrooms(t *testing.T) {
	service, _, bathroomRepo := newFavoriteFixture(t)
	kept := addBathroom(t, bathroomRepo, "Kept", models.GenderUnisex, 0, 0)
	removed := addBathroom(t, bathroomRepo, "Removed", models.GenderUnisex, 0, 0)
	user := &models.User{ID: "uid-1"}
	ctx := context.Background()

	require.NoError(t, service.AddFavorite(ctx, user, kept.ID))
	require.NoError(t, service.AddFavorite(ctx, user, removed.ID))

	bathroomRepo.remove(removed.ID)

	favorites, err := service.FavoriteBathrooms(ctx, user)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, kept.ID, favorites[0].ID)
}

func TestFavoritesRequireUser(t *testing.T) {
	service, _, bathroomRepo := newFavoriteFixture(t)
	bathroom := addBathroom(t, bathroomRepo, "Olson 2F", models.GenderUnisex, 0, 0)

	assert.ErrorIs(t, service.AddFavorite(context.Background(), nil, bathroom.ID), services.ErrUnauthenticated)
	_, err := service.FavoriteBathrooms(context.Background(), nil)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}
