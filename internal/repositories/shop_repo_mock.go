package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mainstreet/internal/models"
)

// MockShopRepository is an in-memory implementation of ShopRepository.
type MockShopRepository struct {
	shops map[string]models.Shop
	mu    sync.RWMutex
}

// NewMockShopRepository creates a new instance of MockShopRepository.
func NewMockShopRepository() *MockShopRepository {
	return &MockShopRepository{
		shops: make(map[string]models.Shop),
	}
}

// GetAll returns all shops ordered by id.
func (r *MockShopRepository) GetAll(ctx context.Context) ([]models.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shopList := make([]models.Shop, 0, len(r.shops))
	for _, s := range r.shops {
		shopList = append(shopList, s)
	}
	sort.Slice(shopList, func(i, j int) bool { return shopList[i].ID < shopList[j].ID })
	return shopList, nil
}

// GetByID returns a shop by its ID.
func (r *MockShopRepository) GetByID(ctx context.Context, id string) (*models.Shop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shop, ok := r.shops[id]
	if !ok {
		return nil, fmt.Errorf("shop with ID %s %w", id, ErrNotFound)
	}
	return &shop, nil
}

// Create adds a new shop.
func (r *MockShopRepository) Create(ctx context.Context, shop *models.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[shop.ID]; ok {
		return fmt.Errorf("shop with ID %s %w", shop.ID, ErrDuplicate)
	}
	r.shops[shop.ID] = *shop
	return nil
}

// Update applies the columns of a partial update.
func (r *MockShopRepository) Update(ctx context.Context, id string, columns map[string]any) (*models.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shop, ok := r.shops[id]
	if !ok {
		return nil, fmt.Errorf("shop with ID %s %w", id, ErrNotFound)
	}
	for column, value := range columns {
		applyColumn(&shop, column, value)
	}
	r.shops[id] = shop
	return &shop, nil
}

// Delete removes a shop by its ID.
func (r *MockShopRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shops[id]; !ok {
		return fmt.Errorf("shop with ID %s %w", id, ErrNotFound)
	}
	delete(r.shops, id)
	return nil
}

// Upsert stores the shop, keeping the click counter of an existing record.
func (r *MockShopRepository) Upsert(ctx context.Context, shop *models.Shop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := *shop
	if existing, ok := r.shops[shop.ID]; ok {
		next.EnterStoreClicks = existing.EnterStoreClicks
	}
	r.shops[shop.ID] = next
	return nil
}

// IncrementClicks bumps the counter of an existing shop.
func (r *MockShopRepository) IncrementClicks(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shop, ok := r.shops[id]
	if !ok {
		return 0, fmt.Errorf("shop with ID %s %w", id, ErrNotFound)
	}
	shop.EnterStoreClicks++
	r.shops[id] = shop
	return shop.EnterStoreClicks, nil
}

func applyColumn(shop *models.Shop, column string, value any) {
	if photos, ok := value.(models.PhotoList); ok && column == "product_photos" {
		shop.ProductPhotos = photos
		return
	}
	s, _ := value.(string)
	switch column {
	case "name":
		shop.Name = s
	case "address":
		shop.Address = s
	case "city":
		shop.City = s
	case "category":
		shop.Category = s
	case "description":
		shop.Description = s
	case "link":
		shop.Link = s
	case "shop_image":
		shop.ShopImage = s
	case "logo":
		shop.Logo = s
	case "product_count":
		shop.ProductCount = s
	}
}
