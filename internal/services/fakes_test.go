package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"stallfinder/internal/models"
	"stallfinder/internal/repositories/interfaces"
	"stallfinder/pkg/logger"
	"stallfinder/pkg/oauth"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.ErrorLevel,
		Format: "text",
		Output: "stdout",
	})
	require.NoError(t, err)
	return log
}

// fakeBathroomRepo keeps bathrooms in insertion order so ordering-sensitive
// operations behave deterministically.
type fakeBathroomRepo struct {
	mu        sync.Mutex
	bathrooms []*models.Bathroom
}

func (r *fakeBathroomRepo) Create(_ context.Context, bathroom *models.Bathroom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bathroom.ID.IsZero() {
		bathroom.ID = primitive.NewObjectID()
	}
	bathroom.CreatedAt = time.Now()
	bathroom.UpdatedAt = bathroom.CreatedAt
	r.bathrooms = append(r.bathrooms, bathroom)
	return nil
}

func (r *fakeBathroomRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Bathroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bathroom := range r.bathrooms {
		if bathroom.ID == id {
			return bathroom, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeBathroomRepo) GetAll(_ context.Context) ([]*models.Bathroom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Bathroom, len(r.bathrooms))
	copy(out, r.bathrooms)
	return out, nil
}

func (r *fakeBathroomRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	bathroom, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if name, ok := updates["name"].(string); ok {
		bathroom.Name = name
	}
	if imageURL, ok := updates["image_url"].(string); ok {
		bathroom.ImageURL = imageURL
	}
	bathroom.UpdatedAt = time.Now()
	return nil
}

func (r *fakeBathroomRepo) SetAggregates(ctx context.Context, id primitive.ObjectID, averageRating float64, totalReviews int) error {
	bathroom, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	bathroom.AverageRating = averageRating
	bathroom.TotalReviews = totalReviews
	return nil
}

func (r *fakeBathroomRepo) remove(id primitive.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, bathroom := range r.bathrooms {
		if bathroom.ID == id {
			r.bathrooms = append(r.bathrooms[:i], r.bathrooms[i+1:]...)
			return
		}
	}
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []*models.Review
	clock   time.Time
}

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	review.ID = primitive.NewObjectID()
	if r.clock.IsZero() {
		r.clock = time.Now()
	}
	r.clock = r.clock.Add(time.Second)
	review.CreatedAt = r.clock
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, review := range r.reviews {
		if review.ID == id {
			copied := *review
			return &copied, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeReviewRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, review := range r.reviews {
		if review.ID == id {
			r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
			return nil
		}
	}
	return interfaces.ErrNotFound
}

// GetByBathroomID returns copies, newest first, the way the real
// repository decodes fresh documents on every call.
func (r *fakeReviewRepo) GetByBathroomID(_ context.Context, bathroomID primitive.ObjectID) ([]*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].BathroomID == bathroomID {
			copied := *r.reviews[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) GetByUserEmail(_ context.Context, email string, includeAnonymous bool) ([]*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		review := r.reviews[i]
		if review.UserEmail != email {
			continue
		}
		if review.IsAnonymous && !includeAnonymous {
			continue
		}
		copied := *review
		out = append(out, &copied)
	}
	return out, nil
}

// fakeUsageRepo mirrors the transactional contract: the usage counter and
// the bathroom's TotalUses move together.
type fakeUsageRepo struct {
	mu        sync.Mutex
	usages    map[string]*models.UsageCount
	bathrooms *fakeBathroomRepo
	seq       int
	clock     time.Time
}

func newFakeUsageRepo(bathrooms *fakeBathroomRepo) *fakeUsageRepo {
	return &fakeUsageRepo{
		usages:    make(map[string]*models.UsageCount),
		bathrooms: bathrooms,
		clock:     time.Now(),
	}
}

func (r *fakeUsageRepo) IncrementVisit(ctx context.Context, bathroomID primitive.ObjectID, userID string) (*models.UsageCount, error) {
	bathroom, err := r.bathrooms.GetByID(ctx, bathroomID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	docID := models.UsageDocID(userID, bathroomID)
	usage, ok := r.usages[docID]
	if !ok {
		usage = &models.UsageCount{ID: docID, UserID: userID, BathroomID: bathroomID}
		r.usages[docID] = usage
	}

	r.seq++
	r.clock = r.clock.Add(time.Second)
	usage.Count++
	usage.LastUsed = r.clock
	usage.Logs = append(usage.Logs, models.UsageLog{
		ID:         fmt.Sprintf("log-%d", r.seq),
		BathroomID: bathroomID,
		Timestamp:  r.clock,
	})
	bathroom.TotalUses++

	copied := *usage
	return &copied, nil
}

func (r *fakeUsageRepo) Get(_ context.Context, id string) (*models.UsageCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	usage, ok := r.usages[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *usage
	return &copied, nil
}

func (r *fakeUsageRepo) GetByUser(_ context.Context, userID string) ([]*models.UsageCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.UsageCount
	for _, usage := range r.usages {
		if usage.UserID == userID {
			copied := *usage
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeUsageRepo) TotalUserUses(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, usage := range r.usages {
		if usage.UserID == userID {
			total += usage.Count
		}
	}
	return total, nil
}

type fakeFavoriteRepo struct {
	mu        sync.Mutex
	favorites map[string]*models.Favorite
	clock     time.Time
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[string]*models.Favorite), clock: time.Now()}
}

func (r *fakeFavoriteRepo) Set(_ context.Context, userID string, bathroomID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	docID := models.FavoriteDocID(userID, bathroomID)
	if _, ok := r.favorites[docID]; ok {
		return nil
	}
	r.clock = r.clock.Add(time.Second)
	r.favorites[docID] = &models.Favorite{
		ID:         docID,
		UserID:     userID,
		BathroomID: bathroomID,
		CreatedAt:  r.clock,
	}
	return nil
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, userID string, bathroomID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.favorites, models.FavoriteDocID(userID, bathroomID))
	return nil
}

func (r *fakeFavoriteRepo) Exists(_ context.Context, userID string, bathroomID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.favorites[models.FavoriteDocID(userID, bathroomID)]
	return ok, nil
}

func (r *fakeFavoriteRepo) GetByUser(_ context.Context, userID string) ([]*models.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Favorite
	for _, favorite := range r.favorites {
		if favorite.UserID == userID {
			copied := *favorite
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	user.CreatedAt = now
	user.LastLoginAt = now
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, id string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if displayName, ok := updates["display_name"].(string); ok {
		user.DisplayName = displayName
	}
	if fullName, ok := updates["full_name"].(string); ok {
		user.FullName = fullName
	}
	if private, ok := updates["is_profile_private"].(bool); ok {
		user.IsProfilePrivate = private
	}
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	user.LastLoginAt = time.Now()
	return nil
}

var errCacheMiss = errors.New("cache miss")

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	if !ok {
		return "", errCacheMiss
	}
	return value, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = fmt.Sprintf("%v", value)
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok, nil
}

type publishedEvent struct {
	Event      string
	BathroomID string
	Payload    interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Event: event, Payload: payload})
}

func (p *fakePublisher) PublishBathroom(bathroomID string, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Event: event, BathroomID: bathroomID, Payload: payload})
}

func (p *fakePublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.events))
	for i, event := range p.events {
		names[i] = event.Event
	}
	return names
}

type fakeVerifier struct {
	identity *oauth.Identity
	err      error
}

func (v *fakeVerifier) Verify(_ context.Context, provider, _ string) (*oauth.Identity, error) {
	if v.err != nil {
		return nil, v.err
	}
	copied := *v.identity
	copied.Provider = provider
	return &copied, nil
}

type fakeExchanger struct {
	identity *oauth.Identity
	err      error
}

func (e *fakeExchanger) AuthURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (e *fakeExchanger) ExchangeCode(context.Context, string) (*oauth.Identity, error) {
	if e.err != nil {
		return nil, e.err
	}
	copied := *e.identity
	copied.Provider = "google"
	return &copied, nil
}

type stubGeocoder struct {
	name string
	err  error
}

func (g *stubGeocoder) BuildingName(_ context.Context, _, _ float64) (string, error) {
	return g.name, g.err
}
