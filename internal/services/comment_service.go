package services

import (
	"context"
	"fmt"
	"strings"

	"mainstreet/internal/models"
	"mainstreet/internal/repositories"
)

// CommentService handles shop comments.
type CommentService struct {
	repo   repositories.CommentRepository
	events EventPublisher
}

// NewCommentService creates a new CommentService.
func NewCommentService(repo repositories.CommentRepository, events EventPublisher) *CommentService {
	return &CommentService{repo: repo, events: events}
}

// List returns the comments on a shop, oldest first.
func (s *CommentService) List(ctx context.Context, shopID string) ([]models.CommentView, error) {
	return s.repo.ListByShop(ctx, shopID)
}

// Create adds a comment by the session user. Text is trimmed and must not be empty.
func (s *CommentService) Create(ctx context.Context, shopID string, author Claims, text string) (*models.CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationErrorf("Comment text is required")
	}

	comment := &models.Comment{ShopID: shopID, UserID: author.UserID, Text: text}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to post comment: %w", err)
	}

	publish(s.events, EventCommentCreated, map[string]any{
		"comment_id": comment.ID,
		"shop_id":    shopID,
		"user_id":    author.UserID,
	})
	return &models.CommentView{
		ID:        comment.ID,
		ShopID:    comment.ShopID,
		UserID:    comment.UserID,
		Username:  author.Username,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}, nil
}
