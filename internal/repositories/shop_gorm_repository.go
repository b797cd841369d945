package repositories

import (
	"context"
	"errors"
	"fmt"

	"mainstreet/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertColumns are overwritten when a reconciled shop already exists.
var upsertColumns = []string{
	"name", "address", "city", "category", "description", "link",
	"shop_image", "logo", "product_photos", "product_count",
}

// GORMShopRepository is a GORM implementation of ShopRepository.
type GORMShopRepository struct {
	db *gorm.DB
}

// NewGORMShopRepository creates a new instance of GORMShopRepository.
func NewGORMShopRepository(db *gorm.DB) *GORMShopRepository {
	return &GORMShopRepository{
		db: db,
	}
}

// GetAll retrieves all shops ordered by id.
func (r *GORMShopRepository) GetAll(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	if err := r.db.WithContext(ctx).Order("id").Find(&shops).Error; err != nil {
		return nil, fmt.Errorf("failed to get all shops: %w", err)
	}
	return shops, nil
}

// GetByID retrieves a single shop by its ID.
func (r *GORMShopRepository) GetByID(ctx context.Context, id string) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("shop with ID %s %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shop by ID %s: %w", id, err)
	}
	return &shop, nil
}

// Create inserts a new shop. A taken id yields ErrDuplicate.
func (r *GORMShopRepository) Create(ctx context.Context, shop *models.Shop) error {
	if err := r.db.WithContext(ctx).Create(shop).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("shop with ID %s %w", shop.ID, ErrDuplicate)
		}
		return fmt.Errorf("failed to create shop: %w", err)
	}
	return nil
}

// Update applies the given columns and returns the stored result.
func (r *GORMShopRepository) Update(ctx context.Context, id string, columns map[string]any) (*models.Shop, error) {
	res := r.db.WithContext(ctx).Model(&models.Shop{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update shop: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("shop with ID %s %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// Delete deletes a shop by its ID.
func (r *GORMShopRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Shop{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete shop: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("shop with ID %s %w", id, ErrNotFound)
	}
	return nil
}

// Upsert inserts the shop or overwrites its mutable fields, keyed by id.
func (r *GORMShopRepository) Upsert(ctx context.Context, shop *models.Shop) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(shop).Error
	if err != nil {
		return fmt.Errorf("failed to upsert shop %s: %w", shop.ID, err)
	}
	return nil
}

// IncrementClicks bumps the enter-store counter and returns the new value.
func (r *GORMShopRepository) IncrementClicks(ctx context.Context, id string) (int, error) {
	res := r.db.WithContext(ctx).Model(&models.Shop{}).Where("id = ?", id).
		UpdateColumn("enter_store_clicks", gorm.Expr("enter_store_clicks + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to count click for shop %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("shop with ID %s %w", id, ErrNotFound)
	}

	var clicks int
	if err := r.db.WithContext(ctx).Model(&models.Shop{}).Where("id = ?", id).
		Select("enter_store_clicks").Scan(&clicks).Error; err != nil {
		return 0, fmt.Errorf("failed to read clicks for shop %s: %w", id, err)
	}
	return clicks, nil
}
