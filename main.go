package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/server"
	"storefront/internal/services"
	"storefront/pkg/kafka"
	"storefront/pkg/payments"
	"storefront/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, log)

	// --- Database ---
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Error("failed to connect to database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// --- Events ---
	publisher, closer, err := newPublisher(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize event publisher", "driver", cfg.EventsDriver, "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}

	// --- Payments ---
	var gateway services.PaymentGateway
	if cfg.PaymentsEnabled() {
		gateway = payments.NewStripeGateway(payments.StripeConfig{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			Currency:      cfg.StripeCurrency,
		})
	}

	svc := server.NewServices(db, cfg.JWTSecret, cfg.FrontendURL, gateway, publisher)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := svc.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Error("failed to ensure admin user", "username", cfg.AdminUsername, "error", err)
			os.Exit(1)
		}
	}

	app := server.NewApp(svc, server.Options{
		Logger:             log,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		DB:                 db,
	})

	// --- Start HTTP Server ---
	go func() {
		log.Info("starting server", "addr", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server gracefully stopped")
}

// newPublisher connects the broker selected by EVENTS_DRIVER. With RabbitMQ
// the order queue consumer is started as well.
func newPublisher(ctx context.Context, cfg *config.Config, log *slog.Logger) (events.Publisher, io.Closer, error) {
	switch cfg.EventsDriver {
	case config.EventsRabbitMQ:
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			return nil, nil, err
		}
		if err := client.ConsumeOrderEvents(ctx, events.LogHandler); err != nil {
			client.Close()
			return nil, nil, err
		}
		return client, client, nil
	case config.EventsKafka:
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info("kafka producer ready", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		return producer, producer, nil
	default:
		log.Info("event publishing disabled")
		return nil, nil, nil
	}
}
