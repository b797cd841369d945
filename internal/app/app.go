package app

import (
	"os"
	"strings"

	"mainstreet/internal/config"
	"mainstreet/internal/handlers"
	"mainstreet/internal/middleware"
	"mainstreet/internal/repositories"
	"mainstreet/internal/services"
	"mainstreet/pkg/logger"
	"mainstreet/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the runtime resources the HTTP app is built on. Every field except
// Config may be nil.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Events  services.EventPublisher
	Redis   *redis.Client
	Metrics *metrics.Metrics
}

// New wires repositories, services and handlers into a Fiber app.
func New(d Deps) *fiber.App {
	cfg := d.Config
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	hasStore := d.DB != nil

	// Repositories stay nil interfaces without a store.
	var (
		shopRepo     repositories.ShopRepository
		userRepo     repositories.UserRepository
		commentRepo  repositories.CommentRepository
		favoriteRepo repositories.FavoriteRepository
	)
	if hasStore {
		shopRepo = repositories.NewGORMShopRepository(d.DB)
		userRepo = repositories.NewGORMUserRepository(d.DB)
		commentRepo = repositories.NewGORMCommentRepository(d.DB)
		favoriteRepo = repositories.NewGORMFavoriteRepository(d.DB)
	}

	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	shopService := services.NewShopService(shopRepo, cfg.ShopsJSONPath, cfg.ShopsQueryTimeout, d.Events, d.Metrics)
	commentService := services.NewCommentService(commentRepo, d.Events)
	favoriteService := services.NewFavoriteService(favoriteRepo)
	adminService := services.NewAdminShopService(shopRepo, services.SeedPaths{
		CSV:  cfg.ShopsCSVPath,
		JSON: cfg.ShopsJSONPath,
	}, d.Events, d.Metrics)

	var limiter *middleware.RateLimiter
	if d.Redis != nil {
		limiter = middleware.NewRateLimiter(d.Redis, "auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Main Street",
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	// The logger wraps recover so panicking requests are still logged and counted.
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Metrics))
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	app.Use(helmet.New(helmet.Config{CrossOriginEmbedderPolicy: "unsafe-none"}))
	app.Use(compress.New())
	if origins := strings.TrimSpace(cfg.CORSAllowedOrigins); origins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowCredentials: true,
		}))
	}

	app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))

	api := app.Group("/api")
	handlers.NewSystemHandler(cfg.GoogleMapsAPIKey).RegisterRoutes(api)
	handlers.NewAuthHandler(authService, hasStore, cfg.CookieSecure, limiter).RegisterRoutes(api)
	handlers.NewShopHandler(shopService, commentService, authService).RegisterRoutes(api)
	handlers.NewFavoriteHandler(favoriteService, authService, hasStore).RegisterRoutes(api)
	handlers.NewAdminHandler(adminService, authService, hasStore).RegisterRoutes(api)

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		app.Static("/", cfg.StaticDir)
	} else if cfg.StaticDir != "" {
		logger.Warn().Str("dir", cfg.StaticDir).Msg("Static directory not found, frontend not served")
	}

	return app
}
