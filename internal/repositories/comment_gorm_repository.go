package repositories

import (
	"context"
	"fmt"

	"mainstreet/internal/models"

	"gorm.io/gorm"
)

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{db: db}
}

// Create stores a comment. The database assigns the id and timestamp.
func (r *GORMCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListByShop returns the comments on a shop with author usernames, oldest first.
func (r *GORMCommentRepository) ListByShop(ctx context.Context, shopID string) ([]models.CommentView, error) {
	views := []models.CommentView{}
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.shop_id, comments.user_id, users.username, comments.text, comments.created_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.shop_id = ?", shopID).
		Order("comments.created_at ASC, comments.id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for shop %s: %w", shopID, err)
	}
	return views, nil
}
