package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"mainstreet/internal/models"
	"mainstreet/internal/reconcile"
	"mainstreet/internal/repositories"
	"mainstreet/pkg/logger"
	"mainstreet/pkg/metrics"

	"github.com/google/uuid"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and collapses every run of other characters to "-".
// An empty result becomes "shop".
func Slugify(name string) string {
	slug := strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		return "shop"
	}
	return slug
}

func slugSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// SeedPaths are the reconciler's source files.
type SeedPaths struct {
	CSV  string
	JSON string
}

// AdminShopService handles shop writes from the admin console.
type AdminShopService struct {
	repo    repositories.ShopRepository
	paths   SeedPaths
	events  EventPublisher
	metrics *metrics.Metrics
}

// NewAdminShopService creates a new AdminShopService.
func NewAdminShopService(repo repositories.ShopRepository, paths SeedPaths, events EventPublisher, m *metrics.Metrics) *AdminShopService {
	return &AdminShopService{
		repo:    repo,
		paths:   paths,
		events:  events,
		metrics: m,
	}
}

// Create stores a new shop whose id is the slug of its name. A taken slug
// gets one retry with a random suffix.
func (s *AdminShopService) Create(ctx context.Context, in models.ShopInput) (*models.Shop, error) {
	base := Slugify(in.Name)
	ids := []string{base, base + "-" + slugSuffix()}

	for _, id := range ids {
		shop := in.ToShop(id)
		err := s.repo.Create(ctx, shop)
		if err == nil {
			logger.Info().Str("shop_id", id).Msg("Shop created")
			publish(s.events, EventShopChanged, map[string]any{"shop_id": id, "action": "created"})
			return shop, nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSlugTaken, base)
}

// Update applies a partial update and returns the full shop.
func (s *AdminShopService) Update(ctx context.Context, id string, patch models.ShopPatch) (*models.Shop, error) {
	if len(patch) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	shop, err := s.repo.Update(ctx, id, map[string]any(patch))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}

	fields := make([]string, 0, len(patch))
	for k := range patch {
		fields = append(fields, k)
	}
	logger.Info().Str("shop_id", id).Strs("fields", fields).Msg("Shop updated")
	publish(s.events, EventShopChanged, map[string]any{"shop_id": id, "action": "updated", "fields": fields})
	return shop, nil
}

// Delete removes a shop.
func (s *AdminShopService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrShopNotFound
		}
		return err
	}
	logger.Info().Str("shop_id", id).Msg("Shop deleted")
	publish(s.events, EventShopChanged, map[string]any{"shop_id": id, "action": "deleted"})
	return nil
}

// Seed re-runs the reconciler against the configured source files.
func (s *AdminShopService) Seed(ctx context.Context) (*reconcile.Result, error) {
	res, err := reconcile.Seed(ctx, s.repo, s.paths.CSV, s.paths.JSON)
	if err != nil {
		return nil, err
	}
	s.metrics.ShopsSeeded(res.Source, len(res.Shops))
	publish(s.events, EventShopsSeeded, map[string]any{"source": res.Source, "count": len(res.Shops)})
	return res, nil
}
