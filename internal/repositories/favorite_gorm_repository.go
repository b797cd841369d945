package repositories

import (
	"context"
	"fmt"

	"mainstreet/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMFavoriteRepository is a GORM implementation of FavoriteRepository.
type GORMFavoriteRepository struct {
	db *gorm.DB
}

// NewGORMFavoriteRepository creates a new instance of GORMFavoriteRepository.
func NewGORMFavoriteRepository(db *gorm.DB) *GORMFavoriteRepository {
	return &GORMFavoriteRepository{db: db}
}

// Exists reports whether the user has favorited the shop.
func (r *GORMFavoriteRepository) Exists(ctx context.Context, userID, shopID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// Add records a favorite. Adding an existing pair is a no-op.
func (r *GORMFavoriteRepository) Add(ctx context.Context, userID, shopID string) error {
	fav := models.Favorite{UserID: userID, ShopID: shopID}
	err := r.db.WithContext(ctx).Omit("User").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// Remove deletes a favorite. Removing a missing pair is a no-op.
func (r *GORMFavoriteRepository) Remove(ctx context.Context, userID, shopID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		Delete(&models.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// ListShopIDs returns the ids of the shops the user has favorited.
func (r *GORMFavoriteRepository) ListShopIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("shop_id").
		Pluck("shop_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return ids, nil
}
