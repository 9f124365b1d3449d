package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/shop-service/internal/api/http"
	"github.com/spec-kit/shop-service/internal/api/http/handlers"
	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/config"
	"github.com/spec-kit/shop-service/internal/events"
	"github.com/spec-kit/shop-service/internal/locker"
	"github.com/spec-kit/shop-service/internal/observability"
	"github.com/spec-kit/shop-service/internal/persistence"
	"github.com/spec-kit/shop-service/internal/repository"
	"github.com/spec-kit/shop-service/internal/service"
	"github.com/spec-kit/shop-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	tokenManager, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	pool := pg.PoolHandle()
	identityStore := repository.NewIdentityStore(pool)
	orderStore := repository.NewOrderStore(pool)

	resolver := auth.NewSessionResolver(tokenManager, identityStore, logger)
	metrics := observability.NewMetrics()
	gate := auth.NewGate(auth.DefaultPolicies())
	gateMiddleware := auth.NewGateMiddleware(gate, resolver, logger, metrics)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	paymentService := service.NewPaymentService(service.PaymentDependencies{
		OrderStore: orderStore,
		Locks:      settlementLocker(ctx, redis, logger),
		Verifier:   service.NewPaymentVerifier(cfg.Payment, logger),
		Dispatcher: dispatcher,
		Logger:     logger,
		LockWait:   cfg.Settlement.LockWait(),
	})
	orderService := service.NewOrderService(orderStore, identityStore)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:   handlers.NewAuthHandler(resolver),
		Orders: handlers.NewOrdersHandler(paymentService, orderService),
		Admin:  handlers.NewAdminHandler(orderService),
		Gate:   gateMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// settlementLocker prefers the Redis lock so settlement stays serialized
// across instances; without Redis a single-instance keyed mutex suffices.
func settlementLocker(ctx context.Context, redis *persistence.Redis, logger *zap.Logger) locker.Locker {
	if err := redis.Ping(ctx); err == nil {
		logger.Info("using redis settlement lock")
		return locker.NewRedisLocker(redis.Client)
	}
	logger.Warn("redis unavailable; using in-process settlement lock")
	return locker.NewKeyedMutex()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
