package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/telemetry"
	"github.com/aaravmahajanofficial/storefront/internal/writethrough"
	"github.com/aaravmahajanofficial/storefront/pkg/events"
	"github.com/aaravmahajanofficial/storefront/pkg/geocoding"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, &cfg.Otel)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	profileCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	rateLimiter := repository.NewRateLimitRepo(redisClient, &cfg.RateConfig)
	revocations := repository.NewTokenRevocationRepo(redisClient)
	profiles := repository.NewProfileRepository(repos.Documents, profileCache, cfg.Cache.DefaultTTL)
	orders := repository.NewOrderRepository(repos.Documents)

	queue := writethrough.NewQueue(&cfg.Sync)

	authService := service.NewAuthService(repos.Accounts, profiles, rateLimiter, revocations, []byte(cfg.Security.JWTKey), cfg.Security.TokenTTL())
	sessions := service.NewSessionRegistry(&cfg.Session, profiles, queue, authService)
	unsubscribe := authService.OnAuthStateChanged(sessions.HandleAuthEvent)
	defer unsubscribe()

	var publisher service.OrderPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		slog.Warn("Kafka brokers not configured, order events disabled")
	}

	var notifier service.OrderNotifier
	if cfg.SendGrid.APIKey != "" {
		notifier = service.NewOrderNotifier(sendgrid.NewEmailService(&cfg.SendGrid))
	} else {
		slog.Warn("SendGrid API key not configured, order emails disabled")
	}

	healthCheck, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := &application{
		cfg:         cfg,
		auth:        authService,
		authMw:      middleware.NewAuthMiddleware([]byte(cfg.Security.JWTKey), authService),
		sessions:    sessions,
		catalog:     service.NewDefaultCatalogService(),
		checkout:    service.NewCheckoutService(orders, queue, publisher, notifier, cfg.Sync.WriteTimeout),
		orders:      service.NewOrderService(orders),
		geocoder:    geocoding.NewNominatimClient(&cfg.Geocoding),
		objects:     repos.Objects,
		healthCheck: healthCheck.Handler(),
	}

	// Middleware chaining
	var handler http.Handler = app.routes()
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "storefront")

	// Setup http server
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// the queue outlives the server so in-flight requests can still enqueue writes
	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()

	g.Go(func() error { return queue.Run(queueCtx) })
	g.Go(func() error { return sessions.Run(gCtx) })

	g.Go(func() error {
		<-gCtx.Done()

		slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Server shut down gracefully. All connections closed.")
		}

		stopQueue()

		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("❌ Server stopped with error", slog.String("error", err.Error()))
	}
}
