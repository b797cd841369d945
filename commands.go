package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mainstreet/internal/reconcile"
	"mainstreet/internal/repositories"
	"mainstreet/internal/services"
	"mainstreet/pkg/logger"
	"mainstreet/pkg/rabbitmq"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load shops into the database",
	Long: `Load shop data into the database.

The CSV export (SHOPS_CSV) is used when present, otherwise the JSON snapshot
(SHOPS_JSON). Existing shops are updated in place; click counts are kept.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var importCmd = &cobra.Command{
	Use:   "import [csv]",
	Short: "Convert a CSV export into the JSON snapshot",
	Long: `Convert a CSV export into the JSON snapshot at SHOPS_JSON and copy the
export to SHOPS_CSV. The CSV path defaults to SHOPS_CSV.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Grant or revoke admin access",
}

var adminGrantCmd = &cobra.Command{
	Use:   "grant <username>",
	Short: "Give a user admin access",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetAdmin(cmd, args[0], true)
	},
}

var adminRevokeCmd = &cobra.Command{
	Use:   "revoke <username>",
	Short: "Remove a user's admin access",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetAdmin(cmd, args[0], false)
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail domain events from RabbitMQ",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(db)

	res, err := reconcile.Seed(cmd.Context(), repositories.NewGORMShopRepository(db), cfg.ShopsCSVPath, cfg.ShopsJSONPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d shops from %s (%s)\n", len(res.Shops), res.Path, res.Source)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	src := cfg.ShopsCSVPath
	if len(args) == 1 {
		src = args[0]
	}

	n, err := reconcile.Import(src, cfg.ShopsJSONPath, cfg.ShopsCSVPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d shops to %s\n", n, cfg.ShopsJSONPath)
	return nil
}

func runSetAdmin(cmd *cobra.Command, username string, isAdmin bool) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(db)

	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), cfg.JWTSecret)
	if err := authService.SetAdmin(cmd.Context(), username, isAdmin); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s admin=%t\n", username, isAdmin)
	return nil
}

func runEvents(cmd *cobra.Command, _ []string) error {
	if cfg.RabbitMQURL == "" {
		return fmt.Errorf("RABBITMQ_URL is not set")
	}
	mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		return err
	}

	// Closing the client ends the delivery loop.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		mq.Close()
	}()

	return mq.ConsumeEvents(func(evt rabbitmq.Event) error {
		logger.Info().
			Str("type", evt.Type).
			Time("occurred_at", evt.OccurredAt).
			Interface("data", evt.Data).
			Msg("Event")
		return nil
	})
}
