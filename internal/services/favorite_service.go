package services

import (
	"context"
	"fmt"
	"strings"

	"mainstreet/internal/repositories"
)

// FavoriteService handles a user's saved shops.
type FavoriteService struct {
	repo repositories.FavoriteRepository
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(repo repositories.FavoriteRepository) *FavoriteService {
	return &FavoriteService{repo: repo}
}

// List returns the ids of the user's favorited shops.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.repo.ListShopIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Toggle adds the favorite when missing and removes it when present. It
// returns whether the shop is now favorited. Read then write, no transaction.
func (s *FavoriteService) Toggle(ctx context.Context, userID, shopID string) (bool, error) {
	shopID = strings.TrimSpace(shopID)
	if shopID == "" {
		return false, validationErrorf("shopId is required")
	}

	exists, err := s.repo.Exists(ctx, userID, shopID)
	if err != nil {
		return false, fmt.Errorf("failed to update favorite: %w", err)
	}
	if exists {
		if err := s.repo.Remove(ctx, userID, shopID); err != nil {
			return false, fmt.Errorf("failed to update favorite: %w", err)
		}
		return false, nil
	}
	if err := s.repo.Add(ctx, userID, shopID); err != nil {
		return false, fmt.Errorf("failed to update favorite: %w", err)
	}
	return true, nil
}
