package repositories

import (
	"context"
	"sort"
	"sync"
)

// MockFavoriteRepository is an in-memory implementation of FavoriteRepository.
type MockFavoriteRepository struct {
	favorites map[string]map[string]struct{}
	mu        sync.RWMutex
}

// NewMockFavoriteRepository creates a new instance of MockFavoriteRepository.
func NewMockFavoriteRepository() *MockFavoriteRepository {
	return &MockFavoriteRepository{
		favorites: make(map[string]map[string]struct{}),
	}
}

func (r *MockFavoriteRepository) Exists(ctx context.Context, userID, shopID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.favorites[userID][shopID]
	return ok, nil
}

func (r *MockFavoriteRepository) Add(ctx context.Context, userID, shopID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.favorites[userID] == nil {
		r.favorites[userID] = make(map[string]struct{})
	}
	r.favorites[userID][shopID] = struct{}{}
	return nil
}

func (r *MockFavoriteRepository) Remove(ctx context.Context, userID, shopID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.favorites[userID], shopID)
	return nil
}

func (r *MockFavoriteRepository) ListShopIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.favorites[userID]))
	for id := range r.favorites[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
