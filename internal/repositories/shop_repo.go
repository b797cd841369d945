package repositories

import (
	"context"

	"mainstreet/internal/models"
)

// ShopRepository defines the interface for shop data access.
type ShopRepository interface {
	GetAll(ctx context.Context) ([]models.Shop, error)
	GetByID(ctx context.Context, id string) (*models.Shop, error)
	Create(ctx context.Context, shop *models.Shop) error
	Update(ctx context.Context, id string, columns map[string]any) (*models.Shop, error)
	Delete(ctx context.Context, id string) error
	// Upsert inserts the shop or overwrites every mutable field except the click counter.
	Upsert(ctx context.Context, shop *models.Shop) error
	IncrementClicks(ctx context.Context, id string) (int, error)
}
