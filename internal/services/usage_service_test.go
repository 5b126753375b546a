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

func newUsageFixture(t *testing.T) (services.UsageService, *fakeUsageRepo, *fakeBathroomRepo, *fakePublisher) {
	t.Helper()
	bathroomRepo := &fakeBathroomRepo{}
	usageRepo := newFakeUsageRepo(bathroomRepo)
	publisher := &fakePublisher{}
	service := services.NewUsageService(usageRepo, bathroomRepo, publisher, newTestLogger(t))
	return service, usageRepo, bathroomRepo, publisher
}

func TestLogVisitIncrementsCounters(t *testing.T) {
	service, _, bathroomRepo, publisher := newUsageFixture(t)
	bathroom := addBathroom(t, bathroomRepo, "Wellman 1F", models.GenderUnisex, 0, 0)
	user := &models.User{ID: "uid-1", Email: "alice@campus.edu"}
	ctx := context.Background()

	first, err := service.LogVisit(ctx, user, bathroom.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Count)

	second, err := service.LogVisit(ctx, user, bathroom.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Count)
	assert.Len(t, second.Logs, 2)

	// The bathroom total moves with the per-user counter.
	assert.Equal(t, 2, bathroom.TotalUses)

	// Visit events go to the bathroom's watchers, not everyone.
	assert.Equal(t, []string{"visit.logged", "visit.logged"}, publisher.names())
	for _, event := range publisher.events {
		assert.Equal(t, bathroom.ID.Hex(), event.BathroomID)
	}
}

func TestLogVisitUnknownBathroom(t *testing.T) {
	service, _, _, _ := newUsageFixture(t)
	user := &models.User{ID: "uid-1"}

	_, err := service.LogVisit(context.Background(), user, primitive.NewObjectID())
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestLogVisitRequiresUser(t *testing.T) {
	service, _, bathroomRepo, _ := newUsageFixture(t)
	bathroom := addBathroom(t, bathroomRepo, "Wellman 1F", models.GenderUnisex, 0, 0)

	_, err := service.LogVisit(context.Background(), nil, bathroom.ID)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestVisitHistoryNewestFirst(t *testing.T) {
	service, _, bathroomRepo, _ := newUsageFixture(t)
	first := addBathroom(t, bathroomRepo, "First", models.GenderUnisex, 0, 0)
	second := addBathroom(t, bathroomRepo, "Second", models.GenderUnisex, 0, 0)
	user := &models.User{ID: "uid-1"}
	ctx := context.Background()

	_, err := service.LogVisit(ctx, user, first.ID)
	require.NoError(t, err)
	_, err = service.LogVisit(ctx, user, second.ID)
	require.NoError(t, err)
	_, err = service.LogVisit(ctx, user, first.ID)
	require.NoError(t, err)

	visits, err := service.VisitHistory(ctx, user)
	require.NoError(t, err)
	require.Len(t, visits, 3)

	assert.Equal(t, first.ID, visits[0].BathroomID)
	assert.Equal(t, second.ID, visits[1].BathroomID)
	assert.Equal(t, first.ID, visits[2].BathroomID)
	assert.True(t, visits[0].Timestamp.After(visits[1].Timestamp))
	assert.True(t, visits[1].Timestamp.After(visits[2].Timestamp))
}

func TestBathroomVisitCountZeroWithoutVisits(t *testing.T) {
	service, _, bathroomRepo, _ := newUsageFixture(t)
	bathroom := addBathroom(t, bathroomRepo, "Quiet", models.GenderUnisex, 0, 0)
	user := &models.User{ID: "uid-1"}

	count, err := service.BathroomVisitCount(context.Background(), user, bathroom.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTotalUserUsesSumsAcrossBathrooms(t *testing.T) {
	service, _, bathroomRepo, _ := newUsageFixture(t)
	first := addBathroom(t, bathroomRepo, "First", models.GenderUnisex, 0, 0)
	second := addBathroom(t, bathroomRepo, "Second", models.GenderUnisex, 0, 0)
	user := &models.User{ID: "uid-1"}
	other := &models.User{ID: "uid-2"}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := service.LogVisit(ctx, user, first.ID)
		require.NoError(t, err)
	}
	_, err := service.LogVisit(ctx, user, second.ID)
	require.NoError(t, err)
	_, err = service.LogVisit(ctx, other, first.ID)
	require.NoError(t, err)

	total, err := service.TotalUserUses(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	count, err := service.BathroomVisitCount(ctx, user, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
