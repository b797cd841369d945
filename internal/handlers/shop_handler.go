package handlers

import (
	"mainstreet/internal/middleware"
	"mainstreet/internal/services"
	"mainstreet/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ShopHandler serves the public shop listing, the click counter and comments.
type ShopHandler struct {
	shopService    *services.ShopService
	commentService *services.CommentService
	authService    *services.AuthService
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(shopService *services.ShopService, commentService *services.CommentService, authService *services.AuthService) *ShopHandler {
	return &ShopHandler{
		shopService:    shopService,
		commentService: commentService,
		authService:    authService,
	}
}

// RegisterRoutes registers the shop routes.
func (h *ShopHandler) RegisterRoutes(router fiber.Router) {
	hasStore := middleware.StoreRequired(h.shopService.HasStore())

	shopRoutes := router.Group("/shops")
	shopRoutes.Get("/", h.HandleListShops)
	shopRoutes.Post("/:id/enter", middleware.AuthOptional(h.authService), hasStore, h.HandleEnter)
	shopRoutes.Get("/:id/comments", hasStore, h.HandleListComments)
	shopRoutes.Post("/:id/comments", middleware.AuthRequired(h.authService), hasStore, h.HandleCreateComment)
}

// HandleListShops lists every shop. Without a store the JSON snapshot is served.
func (h *ShopHandler) HandleListShops(c *fiber.Ctx) error {
	filter := services.ShopFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}

	if !h.shopService.HasStore() {
		data, err := h.shopService.Snapshot(filter)
		if err != nil {
			return respondError(c, err, "No shops data")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.Send(data)
	}

	shops, err := h.shopService.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "Database error")
	}
	return c.JSON(shops)
}

// HandleEnter counts a click on a shop's storefront link. Admin clicks are skipped.
func (h *ShopHandler) HandleEnter(c *fiber.Ctx) error {
	byAdmin := false
	if claims, ok := middleware.CurrentUser(c); ok {
		isAdmin, err := h.authService.IsAdmin(c.UserContext(), claims.UserID)
		if err != nil {
			return respondError(c, err, "Failed to record click")
		}
		byAdmin = isAdmin
	}

	res, err := h.shopService.Enter(c.UserContext(), c.Params("id"), byAdmin)
	if err != nil {
		return respondError(c, err, "Failed to record click")
	}
	if !res.Counted {
		return c.JSON(fiber.Map{"counted": false})
	}
	return c.JSON(fiber.Map{"counted": true, "enterStoreClicks": res.EnterStoreClicks})
}

// HandleListComments lists a shop's comments, oldest first.
func (h *ShopHandler) HandleListComments(c *fiber.Ctx) error {
	comments, err := h.commentService.List(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to load comments")
	}
	return c.JSON(comments)
}

// CommentRequest is the body of a new comment.
type CommentRequest struct {
	Text string `json:"text"`
}

// HandleCreateComment adds a comment by the signed-in user.
func (h *ShopHandler) HandleCreateComment(c *fiber.Ctx) error {
	claims, _ := middleware.CurrentUser(c)

	var req CommentRequest
	if err := parseBody(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	comment, err := h.commentService.Create(c.UserContext(), c.Params("id"), *claims, req.Text)
	if err != nil {
		return respondError(c, err, "Failed to post comment")
	}
	logger.Debug().Uint("comment_id", comment.ID).Str("shop_id", comment.ShopID).Msg("Comment posted")
	return c.Status(fiber.StatusCreated).JSON(comment)
}
