package handlers

import (
	"mainstreet/internal/middleware"
	"mainstreet/internal/services"

	"github.com/gofiber/fiber/v2"
)

// FavoriteHandler handles a signed-in user's favorites.
type FavoriteHandler struct {
	favoriteService *services.FavoriteService
	authService     *services.AuthService
	hasStore        bool
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteService *services.FavoriteService, authService *services.AuthService, hasStore bool) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		authService:     authService,
		hasStore:        hasStore,
	}
}

// RegisterRoutes registers the favorite routes.
func (h *FavoriteHandler) RegisterRoutes(router fiber.Router) {
	favRoutes := router.Group("/favorites", middleware.AuthRequired(h.authService), middleware.StoreRequired(h.hasStore))
	favRoutes.Get("/", h.HandleListFavorites)
	favRoutes.Post("/", h.HandleToggleFavorite)
}

// HandleListFavorites returns the user's favorited shop ids.
func (h *FavoriteHandler) HandleListFavorites(c *fiber.Ctx) error {
	claims, _ := middleware.CurrentUser(c)
	ids, err := h.favoriteService.List(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, err, "Failed to load favorites")
	}
	return c.JSON(ids)
}

// FavoriteRequest is the toggle body.
type FavoriteRequest struct {
	ShopID string `json:"shopId"`
}

// HandleToggleFavorite adds or removes a favorite.
func (h *FavoriteHandler) HandleToggleFavorite(c *fiber.Ctx) error {
	claims, _ := middleware.CurrentUser(c)

	var req FavoriteRequest
	if err := parseBody(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	favorited, err := h.favoriteService.Toggle(c.UserContext(), claims.UserID, req.ShopID)
	if err != nil {
		return respondError(c, err, "Failed to update favorite")
	}
	return c.JSON(fiber.Map{"favorited": favorited, "shopId": req.ShopID})
}
