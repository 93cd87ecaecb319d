package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sweetshop/internal/app"
	"sweetshop/internal/config"
	"sweetshop/internal/database"
	"sweetshop/internal/events"
	"sweetshop/internal/notifications"
	"sweetshop/internal/repositories"
	"sweetshop/pkg/rabbitmq"
	"sweetshop/pkg/sms"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	var configFile string

	root := &cobra.Command{
		Use:           "sweetshop",
		Short:         "Sweets storefront and back-office API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, json or toml)")

	load := func() (*config.Config, *gorm.DB, error) {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, nil, err
		}
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return cfg, db, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API (and the notification consumer when RabbitMQ is enabled)",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, db, err := load()
				if err != nil {
					return err
				}
				return serve(cfg, db)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, err := load()
				if err != nil {
					return err
				}
				if err := database.Migrate(db); err != nil {
					return err
				}
				log.Println("Database migrated")
				return nil
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the admin account, default settings and a starter catalog",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, db, err := load()
				if err != nil {
					return err
				}
				if err := database.Migrate(db); err != nil {
					return err
				}
				if err := database.Seed(db, cfg); err != nil {
					return err
				}
				log.Println("Database seeded")
				return nil
			},
		},
		&cobra.Command{
			Use:   "worker",
			Short: "Consume order events and send customer notifications",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, db, err := load()
				if err != nil {
					return err
				}
				return work(cfg, db)
			},
		},
	)

	if err := root.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func serve(cfg *config.Config, db *gorm.DB) error {
	if err := database.Migrate(db); err != nil {
		return err
	}

	// --- Initialize RabbitMQ Client ---
	var publisher events.Publisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQ.Enabled {
		client, err := rabbitmq.NewClient(rabbitmq.DefaultConfig(cfg.RabbitMQ.URL))
		if err != nil {
			return err
		}
		defer client.Close()
		mqClient = client
		publisher = client
	} else {
		log.Println("RabbitMQ disabled, order events will only be logged")
	}

	fiberApp, err := app.New(db, cfg, publisher)
	if err != nil {
		return err
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if mqClient != nil {
		if err := startNotifier(ctx, cfg, db, mqClient, "sweetshop-api"); err != nil {
			log.Printf("Failed to start notification consumer: %v", err)
		}
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := fiberApp.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := fiberApp.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}

func work(cfg *config.Config, db *gorm.DB) error {
	if !cfg.RabbitMQ.Enabled {
		return fmt.Errorf("worker needs RABBITMQ_ENABLED=true")
	}
	mqClient, err := rabbitmq.NewClient(rabbitmq.DefaultConfig(cfg.RabbitMQ.URL))
	if err != nil {
		return err
	}
	defer mqClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := startNotifier(ctx, cfg, db, mqClient, "sweetshop-worker"); err != nil {
		return err
	}
	<-ctx.Done()
	log.Println("Worker stopped")
	return nil
}

// startNotifier consumes order events and texts customers. Without an SMS
// gateway the messages are only logged.
func startNotifier(ctx context.Context, cfg *config.Config, db *gorm.DB, mqClient *rabbitmq.Client, tag string) error {
	storeName := "Sweetshop"
	settings, err := repositories.NewGORMSettingsRepository(db).Get()
	if err == nil && settings.StoreName != "" {
		storeName = settings.StoreName
	}

	var sender sms.Sender = logSender{}
	if cfg.SMS.Enabled {
		sender = sms.NewClient(sms.Config{
			BaseURL:  cfg.SMS.BaseURL,
			APIKey:   cfg.SMS.APIKey,
			SenderID: cfg.SMS.SenderID,
		})
	}

	notifier := notifications.NewNotifier(sender, storeName)
	return mqClient.Consume(tag, notifier.Delivery(ctx))
}

type logSender struct{}

func (logSender) Send(_ context.Context, to, message string) error {
	log.Printf("SMS to %s: %s", to, message)
	return nil
}
