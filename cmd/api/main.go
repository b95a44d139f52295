package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"github.com/devotedslingers/devotedslingers/internal/cache"
	"github.com/devotedslingers/devotedslingers/internal/config"
	"github.com/devotedslingers/devotedslingers/internal/database"
	"github.com/devotedslingers/devotedslingers/internal/handlers"
	"github.com/devotedslingers/devotedslingers/internal/middleware"
	"github.com/devotedslingers/devotedslingers/internal/realtime"
	"github.com/devotedslingers/devotedslingers/internal/services"
	"github.com/devotedslingers/devotedslingers/internal/telemetry"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := telemetry.InitGlobalLogger(&telemetry.LogConfig{
		Level:  telemetry.LogLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: "stdout",
	}); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	logger := telemetry.GetGlobalLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewInstrumentedConnection(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Errorf("Failed to close database: %v", err)
		}
	}()

	if err := db.Initialize(ctx); err != nil {
		logger.Fatalf("Failed to bootstrap schema: %v", err)
	}

	// Redis is optional: without it candidate pools are uncached and
	// real-time events are dropped.
	var redisSvc *cache.RedisService
	var notifier realtime.Notifier = realtime.NopNotifier{}
	if svc, err := cache.NewRedisService(cfg.RedisURL); err != nil {
		logger.Warnf("Redis unavailable, caching and event fan-out disabled: %v", err)
	} else {
		redisSvc = svc
		notifier = realtime.NewRedisNotifier(svc)
		defer func() {
			if err := redisSvc.Close(); err != nil {
				logger.Errorf("Failed to close redis: %v", err)
			}
		}()
	}

	ledger := services.NewPostgresSwipeLedger(db)
	registry := services.NewPostgresMatchRegistry(db)
	profileService := services.NewProfileService(db)
	matchingService := services.NewMatchingService(ledger, registry, profileService, redisSvc)
	messagingService := services.NewMessagingService(db, registry)

	healthChecks := map[string]func(context.Context) error{
		"database": db.Health,
	}
	if redisSvc != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			if !redisSvc.HealthCheck(ctx) {
				return fmt.Errorf("redis ping failed")
			}
			return nil
		}
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	// otelgin first so HTTP spans are in the context the other middleware
	// and handlers log against.
	router.Use(otelgin.Middleware("devotedslingers"))
	router.Use(middleware.LoggingMiddleware(nil))
	router.Use(middleware.ErrorHandlerMiddleware())

	h := handlers.New(matchingService, profileService, messagingService, notifier, healthChecks, cfg.SwipePageLimit)
	h.RegisterRoutes(router)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Infof("http listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("HTTP shutdown error: %v", err)
		}

		logger.Info("Graceful shutdown completed")
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Errorf("server error: %v", err)
		os.Exit(1)
	}
}
