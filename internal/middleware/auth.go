package middleware

import (
	"time"

	"mainstreet/internal/services"
	"mainstreet/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

const claimsKey = "session_claims"

// AuthOptional attaches the session user when the cookie holds a valid token
// and carries on without one otherwise.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := c.Cookies(SessionCookie); token != "" {
			if claims, err := authService.ValidateToken(token); err == nil {
				c.Locals(claimsKey, claims)
			}
		}
		return c.Next()
	}
}

// AuthRequired rejects requests without a valid session.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return errorJSON(c, fiber.StatusUnauthorized, "Sign in required")
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Path()).Msg("Session validation failed")
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid or expired session")
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// AdminRequired re-reads the admin flag from the store on every request.
// It must run after AuthRequired.
func AdminRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := CurrentUser(c)
		if !ok {
			return errorJSON(c, fiber.StatusUnauthorized, "Sign in required")
		}

		isAdmin, err := authService.IsAdmin(c.UserContext(), claims.UserID)
		if err != nil {
			logger.Error().Err(err).Str("user_id", claims.UserID).Msg("Admin check failed")
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to verify admin access")
		}
		if !isAdmin {
			return errorJSON(c, fiber.StatusForbidden, "Admin access required")
		}
		return c.Next()
	}
}

// CurrentUser returns the session attached by AuthOptional or AuthRequired.
func CurrentUser(c *fiber.Ctx) (*services.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*services.Claims)
	return claims, ok && claims != nil
}

// SetSessionCookie stores the token in an HTTP-only, same-site cookie.
func SetSessionCookie(c *fiber.Ctx, token string, maxAge time.Duration, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// StoreRequired answers 503 on store-backed routes when no store is configured.
func StoreRequired(available bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !available {
			return errorJSON(c, fiber.StatusServiceUnavailable, "Database unavailable")
		}
		return c.Next()
	}
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
