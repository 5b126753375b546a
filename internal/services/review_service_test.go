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

type reviewFixture struct {
	service      services.ReviewService
	reviewRepo   *fakeReviewRepo
	bathroomRepo *fakeBathroomRepo
	userRepo     *fakeUserRepo
	publisher    *fakePublisher
	bathroom     *models.Bathroom
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	bathroomRepo := &fakeBathroomRepo{}
	reviewRepo := &fakeReviewRepo{}
	userRepo := newFakeUserRepo()
	publisher := &fakePublisher{}
	service := services.NewReviewService(reviewRepo, bathroomRepo, userRepo, publisher, newTestLogger(t))

	bathroom := &models.Bathroom{Name: "Engineering 2F West", Gender: models.GenderUnisex}
	require.NoError(t, bathroomRepo.Create(context.Background(), bathroom))

	return &reviewFixture{
		service:      service,
		reviewRepo:   reviewRepo,
		bathroomRepo: bathroomRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		bathroom:     bathroom,
	}
}

func (f *reviewFixture) signUp(t *testing.T, user *models.User) *models.User {
	t.Helper()
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user
}

func record(t *testing.T, service services.ReviewService, user *models.User, bathroomID primitive.ObjectID, rating float64, anonymous bool) *models.Review {
	t.Helper()
	review, err := service.RecordReview(context.Background(), user, bathroomID, &services.CreateReviewRequest{
		Rating:      rating,
		IsAnonymous: anonymous,
	})
	require.NoError(t, err)
	return review
}

func TestRecordReviewRecomputesAverage(t *testing.T) {
	f := newReviewFixture(t)
	user := &models.User{ID: "uid-1", Email: "alice@campus.edu"}

	record(t, f.service, user, f.bathroom.ID, 5, false)
	record(t, f.service, user, f.bathroom.ID, 3, false)
	record(t, f.service, user, f.bathroom.ID, 4, false)

	assert.InDelta(t, 4.0, f.bathroom.AverageRating, 1e-9)
	assert.Equal(t, 3, f.bathroom.TotalReviews)
	assert.Equal(t, []string{"review.created", "review.created", "review.created"}, f.publisher.names())
}

func TestDeleteReviewRecomputesAverage(t *testing.T) {
	f := newReviewFixture(t)
	user := &models.User{ID: "uid-1", Email: "alice@campus.edu"}

	record(t, f.service, user, f.bathroom.ID, 5, false)
	middle := record(t, f.service, user, f.bathroom.ID, 3, false)
	record(t, f.service, user, f.bathroom.ID, 4, false)

	require.NoError(t, f.service.DeleteReview(context.Background(), user, middle.ID))

	assert.InDelta(t, 4.5, f.bathroom.AverageRating, 1e-9)
	assert.Equal(t, 2, f.bathroom.TotalReviews)
}

func TestDeleteLastReviewZeroesAggregates(t *testing.T) {
	f := newReviewFixture(t)
	user := &models.User{ID: "uid-1", Email: "alice@campus.edu"}

	only := record(t, f.service, user, f.bathroom.ID, 4, false)
	require.NoError(t, f.service.DeleteReview(context.Background(), user, only.ID))

	assert.Zero(t, f.bathroom.AverageRating)
	assert.Zero(t, f.bathroom.TotalReviews)
}

func TestDeleteReviewByNonAuthorIsForbidden(t *testing.T) {
	f := newReviewFixture(t)
	author := &models.User{ID: "uid-1", Email: "alice@campus.edu"}
	other := &models.User{ID: "uid-2", Email: "bob@campus.edu"}

	review := record(t, f.service, author, f.bathroom.ID, 5, false)

	err := f.service.DeleteReview(context.Background(), other, review.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// Nothing changed.
	assert.InDelta(t, 5.0, f.bathroom.AverageRating, 1e-9)
	assert.Equal(t, 1, f.bathroom.TotalReviews)
	_, err = f.reviewRepo.GetByID(context.Background(), review.ID)
	assert.NoError(t, err)
}

func TestRecordReviewRejectsFractionalRating(t *testing.T) {
	f := newReviewFixture(t)
	user := &models.User{ID: "uid-1", Email: "alice@campus.edu"}

	_, err := f.service.RecordReview(context.Background(), user, f.bathroom.ID, &services.CreateReviewRequest{Rating: 3.5})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = f.service.RecordReview(context.Background(), user, f.bathroom.ID, &services.CreateReviewRequest{Rating: 6})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestRecordReviewUnknownBathroom(t *testing.T) {
	f := newReviewFixture(t)
	user := &models.User{ID: "uid-1", Email: "alice@campus.edu"}

	_, err := f.service.RecordReview(context.Background(), user, primitive.NewObjectID(), &services.CreateReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestRecordReviewRequiresUser(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.service.RecordReview(context.Background(), nil, f.bathroom.ID, &services.CreateReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
}

func TestBathroomReviewsMaskAnonymousAuthors(t *testing.T) {
	f := newReviewFixture(t)
	author := &models.User{ID: "uid-1", Email: "alice@campus.edu"}
	other := &models.User{ID: "uid-2", Email: "bob@campus.edu"}

	record(t, f.service, author, f.bathroom.ID, 5, true)
	record(t, f.service, author, f.bathroom.ID, 4, false)

	// A stranger sees the anonymous review with author fields stripped.
	listed, err := f.service.BathroomReviews(context.Background(), other, f.bathroom.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, review := range listed {
		if review.IsAnonymous {
			assert.Empty(t, review.UserEmail)
			assert.Empty(t, review.UserID)
			assert.Equal(t, "Anonymous", review.DisplayName())
		} else {
			assert.Equal(t, author.Email, review.UserEmail)
		}
	}

	// An unauthenticated viewer gets the same masking.
	listed, err = f.service.BathroomReviews(context.Background(), nil, f.bathroom.ID)
	require.NoError(t, err)
	for _, review := range listed {
		if review.IsAnonymous {
			assert.Empty(t, review.UserEmail)
		}
	}

	// The author still sees their own identity on the anonymous review.
	listed, err = f.service.BathroomReviews(context.Background(), author, f.bathroom.ID)
	require.NoError(t, err)
	for _, review := range listed {
		assert.Equal(t, author.Email, review.UserEmail)
	}
}

func TestUserReviewsHideAnonymousFromOthers(t *testing.T) {
	f := newReviewFixture(t)
	author := f.signUp(t, &models.User{ID: "uid-1", Email: "alice@campus.edu"})
	other := &models.User{ID: "uid-2", Email: "bob@campus.edu"}

	record(t, f.service, author, f.bathroom.ID, 5, true)
	record(t, f.service, author, f.bathroom.ID, 4, false)

	own, err := f.service.UserReviews(context.Background(), author, author.Email)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	visible, err := f.service.UserReviews(context.Background(), other, author.Email)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.False(t, visible[0].IsAnonymous)

	anonymous, err := f.service.UserReviews(context.Background(), nil, author.Email)
	require.NoError(t, err)
	assert.Len(t, anonymous, 1)
}

func TestUserReviewsHiddenForPrivateProfile(t *testing.T) {
	f := newReviewFixture(t)
	author := f.signUp(t, &models.User{ID: "uid-1", Email: "alice@campus.edu", IsProfilePrivate: true})
	other := &models.User{ID: "uid-2", Email: "bob@campus.edu"}

	record(t, f.service, author, f.bathroom.ID, 5, false)

	// Strangers and anonymous visitors get an empty history.
	hidden, err := f.service.UserReviews(context.Background(), other, author.Email)
	require.NoError(t, err)
	assert.Empty(t, hidden)

	hidden, err = f.service.UserReviews(context.Background(), nil, author.Email)
	require.NoError(t, err)
	assert.Empty(t, hidden)

	// The owner still sees everything.
	own, err := f.service.UserReviews(context.Background(), author, author.Email)
	require.NoError(t, err)
	assert.Len(t, own, 1)
}

func TestUserReviewsUnknownUser(t *testing.T) {
	f := newReviewFixture(t)

	_, err := f.service.UserReviews(context.Background(), nil, "ghost@campus.edu")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
