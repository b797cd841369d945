package repositories

import "context"

// FavoriteRepository defines the interface for favorite data access.
type FavoriteRepository interface {
	Exists(ctx context.Context, userID, shopID string) (bool, error)
	Add(ctx context.Context, userID, shopID string) error
	Remove(ctx context.Context, userID, shopID string) error
	ListShopIDs(ctx context.Context, userID string) ([]string, error)
}
