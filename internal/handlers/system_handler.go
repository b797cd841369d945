package handlers

import "github.com/gofiber/fiber/v2"

// SystemHandler serves liveness and frontend configuration.
type SystemHandler struct {
	googleMapsAPIKey string
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(googleMapsAPIKey string) *SystemHandler {
	return &SystemHandler{googleMapsAPIKey: googleMapsAPIKey}
}

// RegisterRoutes registers the system routes.
func (h *SystemHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
	router.Get("/config", h.HandleConfig)
}

// HandleHealth is the liveness probe.
func (h *SystemHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// HandleConfig exposes the browser map key. It is not a secret.
func (h *SystemHandler) HandleConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"googleMapsApiKey": h.googleMapsAPIKey})
}
