package handlers

import (
	"errors"

	"mainstreet/internal/models"
	"mainstreet/internal/services"
	"mainstreet/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// errorJSON writes the uniform {"error": message} body.
func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondError maps a service error to its HTTP status. Unexpected errors are
// logged and answered with fallback.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return errorJSON(c, fiber.StatusBadRequest, verr.Message)
	case errors.Is(err, models.ErrInvalidPhotoList), errors.Is(err, models.ErrInvalidShopField):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNoFieldsToUpdate):
		return errorJSON(c, fiber.StatusBadRequest, "No fields to update")
	case errors.Is(err, services.ErrInvalidCredentials):
		return errorJSON(c, fiber.StatusUnauthorized, "Invalid email/username or password")
	case errors.Is(err, services.ErrUserNotFound):
		return errorJSON(c, fiber.StatusUnauthorized, "User not found")
	case errors.Is(err, services.ErrShopNotFound):
		return errorJSON(c, fiber.StatusNotFound, "Shop not found")
	case errors.Is(err, services.ErrNoSource):
		return errorJSON(c, fiber.StatusNotFound, "No source file found")
	case errors.Is(err, services.ErrEmailTaken):
		return errorJSON(c, fiber.StatusConflict, "Email already registered")
	case errors.Is(err, services.ErrUsernameTaken):
		return errorJSON(c, fiber.StatusConflict, "Username already taken")
	case errors.Is(err, services.ErrSlugTaken):
		return errorJSON(c, fiber.StatusConflict, "A shop with this id already exists")
	case errors.Is(err, services.ErrStoreUnavailable):
		return errorJSON(c, fiber.StatusServiceUnavailable, "Database unavailable")
	case errors.Is(err, services.ErrDatabaseTimeout):
		logger.Error().Err(err).Str("path", c.Path()).Msg("Database timeout")
		return errorJSON(c, fiber.StatusGatewayTimeout, "Database timeout")
	case errors.Is(err, services.ErrNoShopsData):
		return errorJSON(c, fiber.StatusInternalServerError, "No shops data")
	}

	logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(fallback)
	return errorJSON(c, fiber.StatusInternalServerError, fallback)
}

// ErrorHandler is the app-wide fallback for errors no handler answered.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Unhandled error")
	}
	return errorJSON(c, code, message)
}
