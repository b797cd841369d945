package services_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mainstreet/internal/models"
	"mainstreet/internal/reconcile"
	"mainstreet/internal/repositories"
	"mainstreet/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Corner Books":        "corner-books",
		"  Tea & Co.  ":       "tea-co",
		"Café Ünïcode 2":      "caf-n-code-2",
		"---":                 "shop",
		"":                    "shop",
		"ALREADY-slugged-123": "already-slugged-123",
	}
	for in, want := range cases {
		assert.Equal(t, want, services.Slugify(in), in)
	}
}

func TestAdminShopService_Create(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockShopRepository()
	adminService := services.NewAdminShopService(repo, services.SeedPaths{}, nil, nil)

	shop, err := adminService.Create(ctx, models.ShopInput{Name: "Corner Books", ShopImage: "https://x/hero.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "corner-books", shop.ID)
	assert.Equal(t, "https://x/hero.jpg", shop.ShopImage)
	assert.Equal(t, models.PhotoList{}, shop.ProductPhotos)

	second, err := adminService.Create(ctx, models.ShopInput{Name: "Corner  Books!"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(second.ID, "corner-books-"))
	assert.Len(t, second.ID, len("corner-books-")+6)

	nameless, err := adminService.Create(ctx, models.ShopInput{})
	require.NoError(t, err)
	assert.Equal(t, "shop", nameless.ID)
}

func TestAdminShopService_CreateSlugTakenTwice(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockShopRepository)
	adminService := services.NewAdminShopService(mockRepo, services.SeedPaths{}, nil, nil)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Shop")).
		Return(fmt.Errorf("shop %w", repositories.ErrDuplicate)).Twice()

	_, err := adminService.Create(ctx, models.ShopInput{Name: "Busy"})
	assert.ErrorIs(t, err, services.ErrSlugTaken)
	mockRepo.AssertExpectations(t)
}

func TestAdminShopService_Update(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockShopRepository()
	publisher := new(MockPublisher)
	adminService := services.NewAdminShopService(repo, services.SeedPaths{}, publisher, nil)

	require.NoError(t, repo.Create(ctx, &models.Shop{ID: "shop-1", Name: "Old", City: "Springfield", EnterStoreClicks: 3}))
	publisher.On("Publish", services.EventShopChanged, mock.Anything).Return(nil).Once()

	updated, err := adminService.Update(ctx, "shop-1", models.ShopPatch{"name": "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "Springfield", updated.City)
	assert.Equal(t, 3, updated.EnterStoreClicks)

	_, err = adminService.Update(ctx, "shop-1", models.ShopPatch{})
	assert.ErrorIs(t, err, services.ErrNoFieldsToUpdate)

	_, err = adminService.Update(ctx, "missing", models.ShopPatch{"name": "x"})
	assert.ErrorIs(t, err, services.ErrShopNotFound)

	publisher.AssertExpectations(t)
}

func TestAdminShopService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockShopRepository()
	adminService := services.NewAdminShopService(repo, services.SeedPaths{}, nil, nil)

	require.NoError(t, repo.Create(ctx, &models.Shop{ID: "shop-1"}))
	require.NoError(t, adminService.Delete(ctx, "shop-1"))
	assert.ErrorIs(t, adminService.Delete(ctx, "shop-1"), services.ErrShopNotFound)
}

func TestAdminShopService_Seed(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	paths := services.SeedPaths{CSV: filepath.Join(dir, "boutique-data.csv"), JSON: filepath.Join(dir, "shops.json")}
	repo := repositories.NewMockShopRepository()
	adminService := services.NewAdminShopService(repo, paths, nil, nil)

	_, err := adminService.Seed(ctx)
	assert.ErrorIs(t, err, services.ErrNoSource)

	require.NoError(t, os.WriteFile(paths.JSON, []byte(`[{"id":"1","name":"One"},{"id":"2","name":"Two"}]`), 0o644))
	res, err := adminService.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.SourceJSON, res.Source)
	assert.Len(t, res.Shops, 2)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Len(t, all[0].ProductPhotos, models.MaxProductPhotos)
}
