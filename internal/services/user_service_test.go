package services_test

import (
	"context"
	"testing"

	"stallfinder/internal/models"
	"stallfinder/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (services.UserService, *fakeUserRepo, *models.User) {
	t.Helper()
	userRepo := newFakeUserRepo()
	service := services.NewUserService(userRepo, newTestLogger(t))

	user := &models.User{
		ID:          "uid-1",
		Email:       "alice@campus.edu",
		FullName:    "Alice Liddell",
		DisplayName: "Alice Liddell",
	}
	require.NoError(t, userRepo.Create(context.Background(), user))

	return service, userRepo, user
}

func TestUpdateProfileChangesOnlyProvidedFields(t *testing.T) {
	service, userRepo, user := newUserFixture(t)
	displayName := "alice"

	updated, err := service.UpdateProfile(context.Background(), user, &services.UpdateProfileRequest{
		DisplayName: &displayName,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.DisplayName)
	assert.Equal(t, "Alice Liddell", updated.FullName)

	stored, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.DisplayName)
}

func TestUpdateProfileWithNoFields(t *testing.T) {
	service, _, user := newUserFixture(t)

	_, err := service.UpdateProfile(context.Background(), user, &services.UpdateProfileRequest{})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestSetProfilePrivacy(t *testing.T) {
	service, userRepo, user := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, service.SetProfilePrivacy(ctx, user, true))

	stored, err := userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsProfilePrivate)

	require.NoError(t, service.SetProfilePrivacy(ctx, user, false))
	stored, err = userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsProfilePrivate)
}

func TestPublicProfileVisibleWhenNotPrivate(t *testing.T) {
	service, _, user := newUserFixture(t)
	stranger := &models.User{ID: "uid-2", Email: "bob@campus.edu"}

	profile, err := service.PublicProfile(context.Background(), stranger, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)

	profile, err = service.PublicProfile(context.Background(), nil, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
}

func TestPublicProfileHiddenWhenPrivate(t *testing.T) {
	service, _, user := newUserFixture(t)
	stranger := &models.User{ID: "uid-2", Email: "bob@campus.edu"}
	ctx := context.Background()

	require.NoError(t, service.SetProfilePrivacy(ctx, user, true))

	_, err := service.PublicProfile(ctx, stranger, user.Email)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = service.PublicProfile(ctx, nil, user.Email)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// The owner can always see their own profile.
	profile, err := service.PublicProfile(ctx, user, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
}

func TestPublicProfileUnknownUser(t *testing.T) {
	service, _, _ := newUserFixture(t)

	_, err := service.PublicProfile(context.Background(), nil, "ghost@campus.edu")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUserServiceRequiresUser(t *testing.T) {
	service, _, _ := newUserFixture(t)

	_, err := service.GetProfile(context.Background(), nil)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	err = service.SetProfilePrivacy(context.Background(), nil, true)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}
