package services

import (
	"context"
	"errors"
	"fmt"

	"stallfinder/internal/models"
	"stallfinder/internal/repositories/interfaces"
	"stallfinder/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FavoriteService interface {
	AddFavorite(ctx context.Context, user *models.User, bathroomID primitive.ObjectID) error
	RemoveFavorite(ctx context.Context, user *models.User, bathroomID primitive.ObjectID) error
	IsFavorite(ctx context.Context, user *models.User, bathroomID primitive.ObjectID) (bool, error)
	FavoriteBathrooms(ctx context.Context, user *models.User) ([]*models.Bathroom, error)
}

type favoriteService struct {
	favoriteRepo interfaces.FavoriteRepository
	bathroomRepo interfaces.BathroomRepository
	logger       *logger.Logger
}

func NewFavoriteService(
	favoriteRepo interfaces.FavoriteRepository,
	bathroomRepo interfaces.BathroomRepository,
	logger *logger.Logger,
) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		bathroomRepo: bathroomRepo,
		logger:       logger,
	}
}

func (s *favoriteService) AddFavorite(ctx context.Context, user *models.User, bathroomID primitive.ObjectID) error {
	if user == nil {
		return ErrUnauthenticated
	}

	if _, err := s.bathroomRepo.GetByID(ctx, bathroomID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return fmt.Errorf("%w: bathroom %s", ErrNotFound, bathroomID.Hex())
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.favoriteRepo.Set(ctx, user.ID, bathroomID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, user *models.User, bathroomID primitive.ObjectID) error {
	if user == nil {
		return ErrUnauthenticated
	}

	if err := s.favoriteRepo.Remove(ctx, user.ID, bathroomID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

func (s *favoriteService) IsFavorite(ctx context.Context, user *models.User, bathroomID primitive.ObjectID) (bool, error) {
	if user == nil {
		return false, ErrUnauthenticated
	}

	exists, err := s.favoriteRepo.Exists(ctx, user.ID, bathroomID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return exists, nil
}

// FavoriteBathrooms resolves the user's favorites to bathroom records.
// Favorites pointing at bathrooms that no longer exist are skipped.
func (s *favoriteService) FavoriteBathrooms(ctx context.Context, user *models.User) ([]*models.Bathroom, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	favorites, err := s.favoriteRepo.GetByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	bathrooms := make([]*models.Bathroom, 0, len(favorites))
	for _, favorite := range favorites {
		bathroom, err := s.bathroomRepo.GetByID(ctx, favorite.BathroomID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				s.logger.WithBathroomID(favorite.BathroomID.Hex()).Warn("Favorite points at missing bathroom, skipping")
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		bathrooms = append(bathrooms, bathroom)
	}

	return bathrooms, nil
}
