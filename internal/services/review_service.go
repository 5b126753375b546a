package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"stallfinder/internal/models"
	"stallfinder/internal/repositories/interfaces"
	"stallfinder/internal/utils"
	"stallfinder/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventPublisher pushes domain events to connected clients. Publish
// reaches every client; PublishBathroom reaches only clients watching
// one bathroom's detail view. A nil publisher disables broadcasting.
type EventPublisher interface {
	Publish(event string, payload interface{})
	PublishBathroom(bathroomID string, event string, payload interface{})
}

type ReviewService interface {
	RecordReview(ctx context.Context, user *models.User, bathroomID primitive.ObjectID, request *CreateReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, user *models.User, reviewID primitive.ObjectID) error
	BathroomReviews(ctx context.Context, viewer *models.User, bathroomID primitive.ObjectID) ([]*models.Review, error)
	UserReviews(ctx context.Context, viewer *models.User, email string) ([]*models.Review, error)
}

type CreateReviewRequest struct {
	Rating      float64 `json:"rating" validate:"required,rating_value"`
	Comment     string  `json:"comment" validate:"max=500"`
	IsAnonymous bool    `json:"is_anonymous"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
}

type reviewService struct {
	reviewRepo   interfaces.ReviewRepository
	bathroomRepo interfaces.BathroomRepository
	userRepo     interfaces.UserRepository
	events       EventPublisher
	logger       *logger.Logger
}

func NewReviewService(
	reviewRepo interfaces.ReviewRepository,
	bathroomRepo interfaces.BathroomRepository,
	userRepo interfaces.UserRepository,
	events EventPublisher,
	logger *logger.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:   reviewRepo,
		bathroomRepo: bathroomRepo,
		userRepo:     userRepo,
		events:       events,
		logger:       logger,
	}
}

func (s *reviewService) RecordReview(ctx context.Context, user *models.User, bathroomID primitive.ObjectID, request *CreateReviewRequest) (*models.Review, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	if request.Rating < utils.MinRating || request.Rating > utils.MaxRating || request.Rating != math.Trunc(request.Rating) {
		return nil, fmt.Errorf("%w: rating must be a whole number between %v and %v", ErrInvalidInput, utils.MinRating, utils.MaxRating)
	}

	if _, err := s.bathroomRepo.GetByID(ctx, bathroomID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("%w: bathroom %s", ErrNotFound, bathroomID.Hex())
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	review := &models.Review{
		BathroomID:  bathroomID,
		UserID:      user.ID,
		UserEmail:   user.Email,
		Rating:      request.Rating,
		Comment:     request.Comment,
		IsAnonymous: request.IsAnonymous,
		ImageURL:    request.ImageURL,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.recomputeAggregates(ctx, bathroomID); err != nil {
		return nil, err
	}

	s.logger.WithField("bathroom_id", bathroomID.Hex()).WithField("rating", request.Rating).Info("Review recorded")

	if s.events != nil {
		s.events.Publish("review.created", review)
	}

	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, user *models.User, reviewID primitive.ObjectID) error {
	if user == nil {
		return ErrUnauthenticated
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return fmt.Errorf("%w: review %s", ErrNotFound, reviewID.Hex())
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if review.UserID != user.ID {
		return fmt.Errorf("%w: only the author can delete a review", ErrForbidden)
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return fmt.Errorf("%w: review %s", ErrNotFound, reviewID.Hex())
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.recomputeAggregates(ctx, review.BathroomID); err != nil {
		return err
	}

	s.logger.WithField("review_id", reviewID.Hex()).Info("Review deleted")

	if s.events != nil {
		s.events.Publish("review.deleted", review)
	}

	return nil
}

func (s *reviewService) BathroomReviews(ctx context.Context, viewer *models.User, bathroomID primitive.ObjectID) ([]*models.Review, error) {
	reviews, err := s.reviewRepo.GetByBathroomID(ctx, bathroomID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// Anonymous reviews stay listed but the author identity is masked
	// for everyone except the author.
	for _, review := range reviews {
		if review.IsAnonymous && (viewer == nil || viewer.ID != review.UserID) {
			review.UserEmail = ""
			review.UserID = ""
		}
	}

	return reviews, nil
}

func (s *reviewService) UserReviews(ctx context.Context, viewer *models.User, email string) ([]*models.Review, error) {
	target, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// A private profile exposes no review history to anyone but its
	// owner. The owner also sees their own anonymous reviews; everyone
	// else only sees the public ones.
	isOwner := viewer != nil && viewer.ID == target.ID
	if target.IsProfilePrivate && !isOwner {
		return []*models.Review{}, nil
	}

	reviews, err := s.reviewRepo.GetByUserEmail(ctx, email, isOwner)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return reviews, nil
}

// recomputeAggregates rebuilds the bathroom's average rating and review
// count from the full review set rather than adjusting incrementally,
// so a lost update can never skew the stored aggregate.
func (s *reviewService) recomputeAggregates(ctx context.Context, bathroomID primitive.ObjectID) error {
	reviews, err := s.reviewRepo.GetByBathroomID(ctx, bathroomID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	average := 0.0
	if len(reviews) > 0 {
		sum := 0.0
		for _, review := range reviews {
			sum += review.Rating
		}
		average = sum / float64(len(reviews))
	}

	if err := s.bathroomRepo.SetAggregates(ctx, bathroomID, average, len(reviews)); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return fmt.Errorf("%w: bathroom %s", ErrNotFound, bathroomID.Hex())
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}
