package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/appointment-service/internal/api/http"
	"github.com/spec-kit/appointment-service/internal/api/http/handlers"
	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/config"
	"github.com/spec-kit/appointment-service/internal/events"
	"github.com/spec-kit/appointment-service/internal/messaging"
	"github.com/spec-kit/appointment-service/internal/notification"
	"github.com/spec-kit/appointment-service/internal/observability"
	"github.com/spec-kit/appointment-service/internal/persistence"
	"github.com/spec-kit/appointment-service/internal/repository"
	"github.com/spec-kit/appointment-service/internal/repository/memory"
	"github.com/spec-kit/appointment-service/internal/service"
	"github.com/spec-kit/appointment-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	dependencies := map[string]handlers.Pinger{}

	var repos repository.Repositories
	if cfg.Postgres.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; using in-memory storage")
		repos = memory.NewRepositories()
	} else {
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redis.Close()

		repos = repository.NewPostgresRepositories(pg.PoolHandle(), redis.Client)
		dependencies["postgres"] = pg
		dependencies["redis"] = redis
	}

	channel, err := notification.NewChannel(cfg.Notification, &http.Client{Timeout: cfg.Notification.ChannelTimeout()}, logger)
	if err != nil {
		logger.Fatal("failed to configure notification channel", zap.Error(err))
	}
	notifier := notification.NewNotifier(channel, logger, metrics, cfg.Notification.ChannelTimeout())
	policy := auth.NewPolicy(logger, metrics)

	dispatcher := events.NewInMemoryDispatcher(logger)
	subscribers := []worker.Subscriber{service.NewInboxRecorder(repos.Notifications, logger)}
	if cfg.Messaging.AMQPURL != "" {
		producer, err := messaging.NewEventProducer(cfg.Messaging.AMQPURL, logger)
		if err != nil {
			logger.Fatal("failed to connect broker", zap.Error(err))
		}
		defer producer.Close()
		subscribers = append(subscribers, messaging.NewEventBridge(producer, cfg.Messaging.Exchange, logger))
	}
	worker.StartEventSubscribers(dispatcher, logger, subscribers...)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	services := service.New(*cfg, service.Dependencies{
		Repos:      repos,
		Policy:     policy,
		Notifier:   notifier,
		Dispatcher: dispatcher,
		Logger:     logger,
	}, tokens)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:           handlers.NewAuthHandler(services.Accounts),
		Admin:          handlers.NewAdminHandler(services),
		Account:        handlers.NewAccountHandler(services),
		Clients:        handlers.NewClientsHandler(services.Clients),
		Catalog:        handlers.NewCatalogHandler(services.Catalog, services.Events),
		Appointments:   handlers.NewAppointmentsHandler(services.Appointments),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.Identities),
		Policy:         policy,
		Metrics:        metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
