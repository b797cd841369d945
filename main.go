package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mainstreet/internal/app"
	"mainstreet/internal/config"
	"mainstreet/internal/database"
	"mainstreet/pkg/logger"
	"mainstreet/pkg/metrics"
	"mainstreet/pkg/rabbitmq"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// cfg is loaded once before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mainstreet",
	Short: "Main Street local business directory",
	Long: `Main Street serves the local business directory API and frontend.

Available commands:
  serve  - Run the HTTP server
  seed   - Load shop data from the CSV export or JSON snapshot into the database
  import - Convert a CSV export into the JSON snapshot
  admin  - Grant or revoke admin access
  events - Tail domain events from RabbitMQ`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger.Init("mainstreet", cfg.IsDevelopment())
		logger.SetLevel(cfg.LogLevel)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd, importCmd, adminCmd, eventsCmd)
	adminCmd.AddCommand(adminGrantCmd, adminRevokeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	deps := app.Deps{Config: cfg, Metrics: metrics.New()}

	if cfg.DatabaseURL != "" {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(db)
		deps.DB = db
	} else {
		logger.Warn().Str("snapshot", cfg.ShopsJSONPath).Msg("DATABASE_URL not set, serving the JSON snapshot")
	}

	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			logger.Warn().Err(err).Msg("RabbitMQ unavailable, events disabled")
		} else {
			defer mq.Close()
			deps.Events = mq
		}
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, rate limiting disabled")
			rdb.Close()
		} else {
			defer rdb.Close()
			deps.Redis = rdb
		}
	}

	server := app.New(deps)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Bool("store", deps.DB != nil).Msg("Starting server")
		errCh <- server.Listen(cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info().Msg("Shutting down server...")
	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("Error during shutdown")
	}
	logger.Info().Msg("Server gracefully stopped")
	return nil
}

// openStore connects to DATABASE_URL and creates missing tables.
func openStore() (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		closeStore(db)
		return nil, err
	}
	return db, nil
}

func closeStore(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
