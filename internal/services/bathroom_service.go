package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"stallfinder/internal/models"
	"stallfinder/internal/repositories/interfaces"
	"stallfinder/internal/utils"
	"stallfinder/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Geocoder resolves a coordinate to a human readable building name.
// A nil geocoder leaves the submitted building name untouched.
type Geocoder interface {
	BuildingName(ctx context.Context, lat, lng float64) (string, error)
}

type BathroomService interface {
	AddBathroom(ctx context.Context, request *CreateBathroomRequest) (*models.Bathroom, error)
	GetBathroom(ctx context.Context, id primitive.ObjectID) (*models.Bathroom, error)
	ListBathrooms(ctx context.Context, gender string) ([]*models.Bathroom, error)
	TopRated(ctx context.Context, limit int, minReviews int) ([]*models.Bathroom, error)
	MostUsed(ctx context.Context, limit int) ([]*models.Bathroom, error)
	Nearest(ctx context.Context, origin utils.Point, limit int) ([]*BathroomDistance, error)
	Cluster(ctx context.Context, thresholdMeters float64) ([]*BathroomCluster, error)
}

type CreateBathroomRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	BuildingName string `json:"building_name" validate:"max=100"`
	Floor        int    `json:"floor"`
	// No required tag on the coordinates: required rejects zero values
	// and 0.0 is a legitimate latitude or longitude.
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Gender    string  `json:"gender" validate:"required,gender"`
	ImageURL  string  `json:"image_url" validate:"omitempty,url"`
}

// BathroomDistance pairs a bathroom with its distance from the query
// origin, in meters.
type BathroomDistance struct {
	Bathroom *models.Bathroom `json:"bathroom"`
	Distance float64          `json:"distance_meters"`
}

type BathroomCluster struct {
	Center    utils.Point        `json:"center"`
	Bounds    *utils.Bounds      `json:"bounds,omitempty"`
	Bathrooms []*models.Bathroom `json:"bathrooms"`
}

type bathroomService struct {
	bathroomRepo interfaces.BathroomRepository
	cache        CacheService
	geocoder     Geocoder
	logger       *logger.Logger
}

func NewBathroomService(
	bathroomRepo interfaces.BathroomRepository,
	cache CacheService,
	geocoder Geocoder,
	logger *logger.Logger,
) BathroomService {
	return &bathroomService{
		bathroomRepo: bathroomRepo,
		cache:        cache,
		geocoder:     geocoder,
		logger:       logger,
	}
}

func (s *bathroomService) AddBathroom(ctx context.Context, request *CreateBathroomRequest) (*models.Bathroom, error) {
	if !utils.IsValidCoordinates(request.Latitude, request.Longitude) {
		return nil, fmt.Errorf("%w: invalid coordinates", ErrInvalidInput)
	}

	buildingName := request.BuildingName
	if buildingName == "" && s.geocoder != nil {
		name, err := s.geocoder.BuildingName(ctx, request.Latitude, request.Longitude)
		if err != nil {
			s.logger.WithError(err).Warn("Reverse geocoding failed, keeping empty building name")
		} else {
			buildingName = name
		}
	}

	bathroom := &models.Bathroom{
		Name:         request.Name,
		BuildingName: buildingName,
		Floor:        request.Floor,
		Location: models.GeoPoint{
			Latitude:  request.Latitude,
			Longitude: request.Longitude,
		},
		Gender:   models.Gender(request.Gender),
		ImageURL: request.ImageURL,
	}

	if err := s.bathroomRepo.Create(ctx, bathroom); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.WithBathroomID(bathroom.ID.Hex()).Info("Bathroom added")
	return bathroom, nil
}

func (s *bathroomService) GetBathroom(ctx context.Context, id primitive.ObjectID) (*models.Bathroom, error) {
	bathroom, err := s.bathroomRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, fmt.Errorf("%w: bathroom %s", ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return bathroom, nil
}

func (s *bathroomService) ListBathrooms(ctx context.Context, gender string) ([]*models.Bathroom, error) {
	bathrooms, err := s.bathroomRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	wanted := models.Gender(gender)
	if wanted == "" || wanted == models.GenderAllGender {
		return bathrooms, nil
	}

	filtered := make([]*models.Bathroom, 0, len(bathrooms))
	for _, bathroom := range bathrooms {
		if bathroom.Gender == wanted || bathroom.Gender == models.GenderUnisex || bathroom.Gender == models.GenderAllGender {
			filtered = append(filtered, bathroom)
		}
	}

	return filtered, nil
}

func (s *bathroomService) TopRated(ctx context.Context, limit int, minReviews int) ([]*models.Bathroom, error) {
	if limit <= 0 {
		limit = utils.DefaultLeaderboardSize
	}
	if minReviews <= 0 {
		minReviews = utils.DefaultMinReviews
	}

	cacheKey := fmt.Sprintf("%stop_rated:%d:%d", utils.CacheLeaderboardPrefix, limit, minReviews)
	if cached, ok := s.cachedLeaderboard(ctx, cacheKey); ok {
		return cached, nil
	}

	bathrooms, err := s.bathroomRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	eligible := make([]*models.Bathroom, 0, len(bathrooms))
	for _, bathroom := range bathrooms {
		if bathroom.TotalReviews >= minReviews {
			eligible = append(eligible, bathroom)
		}
	}

	// Ties on average rating go to the bathroom with more reviews.
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].AverageRating != eligible[j].AverageRating {
			return eligible[i].AverageRating > eligible[j].AverageRating
		}
		return eligible[i].TotalReviews > eligible[j].TotalReviews
	})

	if len(eligible) > limit {
		eligible = eligible[:limit]
	}

	s.cacheLeaderboard(ctx, cacheKey, eligible)
	return eligible, nil
}

func (s *bathroomService) MostUsed(ctx context.Context, limit int) ([]*models.Bathroom, error) {
	if limit <= 0 {
		limit = utils.DefaultLeaderboardSize
	}

	cacheKey := fmt.Sprintf("%smost_used:%d", utils.CacheLeaderboardPrefix, limit)
	if cached, ok := s.cachedLeaderboard(ctx, cacheKey); ok {
		return cached, nil
	}

	bathrooms, err := s.bathroomRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	sort.SliceStable(bathrooms, func(i, j int) bool {
		return bathrooms[i].TotalUses > bathrooms[j].TotalUses
	})

	if len(bathrooms) > limit {
		bathrooms = bathrooms[:limit]
	}

	s.cacheLeaderboard(ctx, cacheKey, bathrooms)
	return bathrooms, nil
}

func (s *bathroomService) Nearest(ctx context.Context, origin utils.Point, limit int) ([]*BathroomDistance, error) {
	if !utils.IsValidCoordinates(origin.Lat, origin.Lng) {
		return nil, fmt.Errorf("%w: invalid origin coordinates", ErrInvalidInput)
	}

	bathrooms, err := s.bathroomRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ranked := make([]*BathroomDistance, 0, len(bathrooms))
	for _, bathroom := range bathrooms {
		ranked = append(ranked, &BathroomDistance{
			Bathroom: bathroom,
			Distance: utils.CalculateDistanceMeters(origin.Lat, origin.Lng, bathroom.Location.Latitude, bathroom.Location.Longitude),
		})
	}

	// Stable so equidistant bathrooms keep their stored order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

// Cluster groups bathrooms whose locations fall within thresholdMeters
// of a cluster's anchor, the location of the bathroom that seeded it.
// Assignment is greedy in stored order: each bathroom joins the first
// cluster close enough, otherwise it seeds a new one. The partition
// depends on input order; Center and Bounds are derived for display
// and play no part in assignment.
func (s *bathroomService) Cluster(ctx context.Context, thresholdMeters float64) ([]*BathroomCluster, error) {
	if thresholdMeters <= 0 {
		thresholdMeters = utils.DefaultClusterThresholdMeters
	}

	bathrooms, err := s.bathroomRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var clusters []*BathroomCluster
	for _, bathroom := range bathrooms {
		var target *BathroomCluster
		for _, cluster := range clusters {
			anchor := cluster.Bathrooms[0].Location
			if utils.IsWithinRadiusMeters(anchor.Latitude, anchor.Longitude, bathroom.Location.Latitude, bathroom.Location.Longitude, thresholdMeters) {
				target = cluster
				break
			}
		}

		if target == nil {
			clusters = append(clusters, &BathroomCluster{
				Center:    utils.Point{Lat: bathroom.Location.Latitude, Lng: bathroom.Location.Longitude},
				Bathrooms: []*models.Bathroom{bathroom},
			})
			continue
		}

		target.Bathrooms = append(target.Bathrooms, bathroom)
		points := make([]utils.Point, 0, len(target.Bathrooms))
		for _, member := range target.Bathrooms {
			points = append(points, utils.Point{Lat: member.Location.Latitude, Lng: member.Location.Longitude})
		}
		target.Center = utils.CalculateCenter(points)
		target.Bounds = utils.CalculateBounds(points)
	}

	return clusters, nil
}

func (s *bathroomService) cachedLeaderboard(ctx context.Context, key string) ([]*models.Bathroom, bool) {
	if s.cache == nil {
		return nil, false
	}

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var bathrooms []*models.Bathroom
	if err := json.Unmarshal([]byte(cached), &bathrooms); err != nil {
		return nil, false
	}

	return bathrooms, true
}

func (s *bathroomService) cacheLeaderboard(ctx context.Context, key string, bathrooms []*models.Bathroom) {
	if s.cache == nil {
		return
	}

	if data, err := json.Marshal(bathrooms); err == nil {
		s.cache.Set(ctx, key, string(data), time.Minute)
	}
}
