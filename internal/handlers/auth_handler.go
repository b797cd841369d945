package handlers

import (
	"mainstreet/internal/middleware"
	"mainstreet/internal/models"
	"mainstreet/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *services.AuthService
	hasStore     bool
	cookieSecure bool
	limiter      *middleware.RateLimiter
}

// NewAuthHandler creates a new AuthHandler. limiter may be nil.
func NewAuthHandler(authService *services.AuthService, hasStore, cookieSecure bool, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		hasStore:     hasStore,
		cookieSecure: cookieSecure,
		limiter:      limiter,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")

	authRoutes.Post("/register", h.limited(h.HandleRegister)...)
	authRoutes.Post("/login", h.limited(h.HandleLogin)...)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/me", middleware.AuthOptional(h.authService), h.HandleMe)
}

// limited prefixes handler with the rate limiter and the store check.
func (h *AuthHandler) limited(handler fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, 3)
	if h.limiter != nil {
		chain = append(chain, h.limiter.Middleware())
	}
	return append(chain, middleware.StoreRequired(h.hasStore), handler)
}

// RegisterRequest is the sign-up body.
type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	SubscribeEmails bool   `json:"subscribe_emails"`
}

// LoginRequest is the sign-in body.
type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username"`
	Password        string `json:"password"`
}

// HandleRegister creates an account and signs the new user in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.authService.Register(c.UserContext(), services.RegisterInput{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		SubscribeEmails: req.SubscribeEmails,
	})
	if err != nil {
		return respondError(c, err, "Registration failed")
	}
	return h.signIn(c, user)
}

// HandleLogin authenticates by email or username and sets the session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.authService.Login(c.UserContext(), req.EmailOrUsername, req.Password)
	if err != nil {
		return respondError(c, err, "Login failed")
	}
	return h.signIn(c, user)
}

func (h *AuthHandler) signIn(c *fiber.Ctx, user *models.User) error {
	token, err := h.authService.IssueToken(user)
	if err != nil {
		return respondError(c, err, "Login failed")
	}
	middleware.SetSessionCookie(c, token, h.authService.TokenDuration(), h.cookieSecure)
	return c.JSON(fiber.Map{"user": user.Public()})
}

// HandleLogout clears the session cookie. Issued tokens stay valid until they expire.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c, h.cookieSecure)
	return c.JSON(fiber.Map{"ok": true})
}

// HandleMe returns the signed-in user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		return errorJSON(c, fiber.StatusUnauthorized, "Not signed in")
	}
	if !h.hasStore {
		return errorJSON(c, fiber.StatusServiceUnavailable, "Database unavailable")
	}

	user, err := h.authService.Me(c.UserContext(), claims.UserID)
	if err != nil {
		return respondError(c, err, "Failed to get user")
	}
	return c.JSON(user.Public())
}

// parseBody decodes a JSON body. An empty body decodes as an empty object.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.App().Config().JSONDecoder(c.Body(), out)
}
