package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"mainstreet/internal/models"
	"mainstreet/internal/reconcile"
	"mainstreet/internal/repositories"
	"mainstreet/pkg/logger"
	"mainstreet/pkg/metrics"
)

// ShopFilter narrows the listing. The zero value matches every shop.
type ShopFilter struct {
	Query    string
	Category string
}

// IsZero reports whether the filter matches everything.
func (f ShopFilter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" && strings.TrimSpace(f.Category) == ""
}

// Match reports whether the shop passes the filter. Query is a
// case-insensitive substring of name, category, city, address or description;
// category must match exactly, ignoring case.
func (f ShopFilter) Match(s *models.Shop) bool {
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(strings.TrimSpace(s.Category), c) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{s.Name, s.Category, s.City, s.Address, s.Description} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// EnterResult is the outcome of an enter-store click.
type EnterResult struct {
	Counted          bool
	EnterStoreClicks int
}

// ShopService handles the public shop listing and the click counter.
type ShopService struct {
	repo         repositories.ShopRepository
	snapshotPath string
	queryTimeout time.Duration
	events       EventPublisher
	metrics      *metrics.Metrics
}

// NewShopService creates a new ShopService. repo is nil when no store is
// configured; the listing then falls back to the snapshot at snapshotPath.
func NewShopService(repo repositories.ShopRepository, snapshotPath string, queryTimeout time.Duration, events EventPublisher, m *metrics.Metrics) *ShopService {
	return &ShopService{
		repo:         repo,
		snapshotPath: snapshotPath,
		queryTimeout: queryTimeout,
		events:       events,
		metrics:      m,
	}
}

// HasStore reports whether shops come from the relational store.
func (s *ShopService) HasStore() bool {
	return s.repo != nil
}

// List returns stored shops ordered by id, bounded by the query timeout.
func (s *ShopService) List(ctx context.Context, filter ShopFilter) ([]models.Shop, error) {
	if s.repo == nil {
		return nil, ErrStoreUnavailable
	}

	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	shops, err := s.repo.GetAll(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseTimeout, err)
		}
		return nil, err
	}
	if shops == nil {
		shops = []models.Shop{}
	}
	return applyFilter(shops, filter), nil
}

// Snapshot returns the JSON snapshot. Without a filter the file bytes are
// returned untouched; with one the matching shops are re-encoded.
func (s *ShopService) Snapshot(filter ShopFilter) ([]byte, error) {
	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		logger.Error().Err(err).Str("path", s.snapshotPath).Msg("Fallback read error")
		return nil, fmt.Errorf("%w: %v", ErrNoShopsData, err)
	}
	if !json.Valid(data) {
		logger.Error().Str("path", s.snapshotPath).Msg("Snapshot is not valid JSON")
		return nil, ErrNoShopsData
	}
	if filter.IsZero() {
		return data, nil
	}

	shops, err := reconcile.ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoShopsData, err)
	}
	return json.Marshal(applyFilter(shops, filter))
}

// Enter counts a visit to a shop's storefront. Admin clicks are not counted.
func (s *ShopService) Enter(ctx context.Context, shopID string, byAdmin bool) (*EnterResult, error) {
	if s.repo == nil {
		return nil, ErrStoreUnavailable
	}
	if byAdmin {
		s.metrics.ShopEntered(false)
		return &EnterResult{Counted: false}, nil
	}

	clicks, err := s.repo.IncrementClicks(ctx, shopID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}

	s.metrics.ShopEntered(true)
	publish(s.events, EventShopEntered, map[string]any{"shop_id": shopID, "enter_store_clicks": clicks})
	return &EnterResult{Counted: true, EnterStoreClicks: clicks}, nil
}

func applyFilter(shops []models.Shop, filter ShopFilter) []models.Shop {
	if filter.IsZero() {
		return shops
	}
	out := make([]models.Shop, 0, len(shops))
	for i := range shops {
		if filter.Match(&shops[i]) {
			out = append(out, shops[i])
		}
	}
	return out
}
