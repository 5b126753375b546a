package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"stallfinder/internal/models"
	"stallfinder/internal/repositories/interfaces"
	"stallfinder/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UsageService interface {
	LogVisit(ctx context.Context, user *models.User, bathroomID primitive.ObjectID) (*models.UsageCount, error)
	VisitHistory(ctx context.Context, user *models.User) ([]*models.Visit, error)
	BathroomVisitCount(ctx context.Context, user *models.User, bathroomID primitive.ObjectID) (int, error)
	TotalUserUses(ctx context.Context, user *models.User) (int, error)
}

type usageService struct {
	usageRepo    interfaces.UsageRepository
	bathroomRepo interfaces.BathroomRepository
	events       EventPublisher
	logger       *logger.Logger
}

func NewUsageService(
	usageRepo interfaces.UsageRepository,
	bathroomRepo interfaces.BathroomRepository,
	events EventPublisher,
	logger *logger.Logger,
) UsageService {
	return &usageService{
		usageRepo:    usageRepo,
		bathroomRepo: bathroomRepo,
		events:       events,
		logger:       logger,
	}
}

func (s *usageService) LogVisit(ctx context.Context, user *models.User, bathroomID primitive.ObjectID) (*models.UsageCount, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	if _, err := s.bathroomRepo.GetByID(ctx, bathroomID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("%w: bathroom %s", ErrNotFound, bathroomID.Hex())
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	usage, err := s.usageRepo.IncrementVisit(ctx, bathroomID, user.ID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("%w: bathroom %s", ErrNotFound, bathroomID.Hex())
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.LogVisitEvent(bathroomID.Hex(), user.ID, usage.Count)

	if s.events != nil {
		s.events.PublishBathroom(bathroomID.Hex(), "visit.logged", usage)
	}

	return usage, nil
}

func (s *usageService) VisitHistory(ctx context.Context, user *models.User) ([]*models.Visit, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	counts, err := s.usageRepo.GetByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var visits []*models.Visit
	for _, count := range counts {
		for _, log := range count.Logs {
			visits = append(visits, &models.Visit{
				ID:         log.ID,
				UserID:     count.UserID,
				BathroomID: log.BathroomID,
				Timestamp:  log.Timestamp,
			})
		}
	}

	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].Timestamp.After(visits[j].Timestamp)
	})

	return visits, nil
}

func (s *usageService) BathroomVisitCount(ctx context.Context, user *models.User, bathroomID primitive.ObjectID) (int, error) {
	if user == nil {
		return 0, ErrUnauthenticated
	}

	usage, err := s.usageRepo.Get(ctx, models.UsageDocID(user.ID, bathroomID))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return usage.Count, nil
}

func (s *usageService) TotalUserUses(ctx context.Context, user *models.User) (int, error) {
	if user == nil {
		return 0, ErrUnauthenticated
	}

	total, err := s.usageRepo.TotalUserUses(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return total, nil
}
