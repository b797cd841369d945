package repositories

import (
	"context"

	"mainstreet/internal/models"
)

// CommentRepository defines the interface for shop comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByShop(ctx context.Context, shopID string) ([]models.CommentView, error)
}
