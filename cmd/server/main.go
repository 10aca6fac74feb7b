package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/staywise/booking-api/internal/config"
	"github.com/staywise/booking-api/internal/database"
	"github.com/staywise/booking-api/internal/handler"
	"github.com/staywise/booking-api/internal/logging"
	"github.com/staywise/booking-api/internal/middleware"
	"github.com/staywise/booking-api/internal/observability/tracing"
	"github.com/staywise/booking-api/internal/queue"
	"github.com/staywise/booking-api/internal/repository"
	"github.com/staywise/booking-api/internal/router"
	"github.com/staywise/booking-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load() // Load environment config

	logger, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile, cfg.ServiceName, cfg.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cleanup cleanupStack
	defer cleanup.run(logger, 5*time.Second)

	shutdownTracing, err := tracing.Init(ctx, logger, cfg.ServiceName, cfg.Env)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	cleanup.push("tracer", shutdownTracing)

	// Document store
	client, db, err := database.Open(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	cleanup.push("mongodb", client.Disconnect)
	properties := repository.NewPropertyRepo(db)
	users := repository.NewUserRepo(db)
	bookings := repository.NewBookingRepo(db)
	for name, ensure := range map[string]func(context.Context) error{
		"properties": properties.EnsureIndexes,
		"users":      users.EnsureIndexes,
		"bookings":   bookings.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	logger.Info("mongodb connected", "database", cfg.MongoDB)

	// Optional Redis for the response cache and the rate limiter.  A nil
	// client switches both to their in-process fallbacks.
	rdb := config.NewRedisClient(config.LoadRedisConfig(), logger)
	if rdb != nil {
		cleanup.push("redis", func(context.Context) error { return rdb.Close() })
	}
	cacheCfg := config.LoadCacheConfig()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger)

	var events service.EventPublisher
	if cfg.EventsEnabled {
		events = service.NewRabbitPublisher(cfg.RabbitMQURL, logger)
	}
	bookingSvc := service.NewBookingService(properties, bookings, users, events, logger)

	e := router.NewServer(logger, cfg.CORSAllowedOrigins)
	router.RegisterRoutes(e, database.Pinger(client))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, logger), cfg.JWTSecret, limiter)
	router.RegisterProperties(e,
		handler.NewPropertyHandler(properties, middleware.NewCacheInvalidator(cacheCfg, rdb, logger), logger),
		cfg.JWTSecret,
		middleware.NewRedisCache(cacheCfg, rdb, logger),
	)
	router.RegisterBookings(e, handler.NewBookingHandler(bookingSvc, logger), cfg.JWTSecret, limiter)

	consumerDone := make(chan struct{})
	if cfg.EventsEnabled {
		consumer := queue.NewBookingConsumer(cfg.RabbitMQURL, cfg.BookingLogDir, logger)
		go func() {
			defer close(consumerDone)
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("booking consumer stopped", "error", err)
			}
		}()
	} else {
		close(consumerDone)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(e, cfg.ServiceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "events", cfg.EventsEnabled, "redis", rdb != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logger.Error("server error", "error", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	bookingSvc.Wait()
	<-consumerDone
	logger.Info("server stopped")
	return nil
}
