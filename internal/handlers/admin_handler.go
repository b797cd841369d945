package handlers

import (
	"encoding/json"
	"errors"

	"mainstreet/internal/middleware"
	"mainstreet/internal/models"
	"mainstreet/internal/services"
	"mainstreet/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin console's shop writes.
type AdminHandler struct {
	adminService *services.AdminShopService
	authService  *services.AuthService
	hasStore     bool
	validate     *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminShopService, authService *services.AuthService, hasStore bool) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		authService:  authService,
		hasStore:     hasStore,
		validate:     validation.New(),
	}
}

// RegisterRoutes registers the admin routes behind the session and admin gates.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin",
		middleware.AuthRequired(h.authService),
		middleware.StoreRequired(h.hasStore),
		middleware.AdminRequired(h.authService),
	)
	adminRoutes.Post("/shops", h.HandleCreateShop)
	adminRoutes.Patch("/shops/:id", h.HandleUpdateShop)
	adminRoutes.Delete("/shops/:id", h.HandleDeleteShop)
	adminRoutes.Post("/seed", h.HandleSeed)
}

// HandleCreateShop creates a shop whose id is derived from its name.
func (h *AdminHandler) HandleCreateShop(c *fiber.Ctx) error {
	var in models.ShopInput
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &in); err != nil {
			if errors.Is(err, models.ErrInvalidPhotoList) {
				return errorJSON(c, fiber.StatusBadRequest, err.Error())
			}
			return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	if err := h.validate.Struct(in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validation.Message(err))
	}

	shop, err := h.adminService.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err, "Failed to create shop")
	}
	return c.Status(fiber.StatusCreated).JSON(shop)
}

// HandleUpdateShop applies the fields present in the body.
func (h *AdminHandler) HandleUpdateShop(c *fiber.Ctx) error {
	patch, err := models.ParseShopPatch(c.Body())
	if err != nil {
		return respondError(c, err, "Failed to update shop")
	}

	shop, err := h.adminService.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err, "Failed to update shop")
	}
	return c.JSON(shop)
}

// HandleDeleteShop deletes a shop.
func (h *AdminHandler) HandleDeleteShop(c *fiber.Ctx) error {
	if err := h.adminService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete shop")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSeed re-runs the reconciler.
func (h *AdminHandler) HandleSeed(c *fiber.Ctx) error {
	res, err := h.adminService.Seed(c.UserContext())
	if err != nil {
		return respondError(c, err, "Seed failed")
	}
	return c.JSON(fiber.Map{"count": len(res.Shops), "source": res.Source})
}
