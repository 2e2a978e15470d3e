package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/hanifml/storefront/internal/auth"
	"github.com/hanifml/storefront/internal/config"
	"github.com/hanifml/storefront/internal/event"
	handler "github.com/hanifml/storefront/internal/handler/http"
	"github.com/hanifml/storefront/internal/repository/postgres"
	redisrepo "github.com/hanifml/storefront/internal/repository/redis"
	"github.com/hanifml/storefront/internal/service"
	"github.com/hanifml/storefront/internal/storage/local"
	"github.com/hanifml/storefront/migrations"
	"github.com/hanifml/storefront/pkg/database"
	"github.com/hanifml/storefront/pkg/health"
	pkgkafka "github.com/hanifml/storefront/pkg/kafka"
)

// App wires together all dependencies and runs the storefront API.
type App struct {
	cfg           *config.Config
	logger        *slog.Logger
	pool          *pgxpool.Pool
	redisClient   *goredis.Client
	producer      *pkgkafka.Producer
	httpServer    *http.Server
	sentryEnabled bool
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Sentry error reporting when a DSN is configured.
	sentryEnabled := cfg.SentryDSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			return nil, fmt.Errorf("init sentry: %w", err)
		}
		logger.Info("sentry error reporting enabled")
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "storefront")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Initialize Redis (token revocation ledger).
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis", slog.String("host", cfg.RedisHost), slog.Int("port", cfg.RedisPort))

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Local file storage for uploads.
	fileStorage, err := local.New(cfg.UploadDir)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	// Build the dependency graph.
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	revocationRepo := redisrepo.NewRevocationRepository(redisClient)
	eventProducer := event.NewProducer(producer, logger)

	authService := service.NewAuthService(userRepo, revocationRepo, tokens, eventProducer, logger)
	userService := service.NewUserService(userRepo, fileStorage, eventProducer, logger)
	productService := service.NewProductService(productRepo, fileStorage, eventProducer, logger)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		AuthService:     authService,
		UserService:     userService,
		ProductService:  productService,
		CategoryService: categoryService,
		HealthHandler:   healthHandler,
		Logger:          logger,
		CORS: handler.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		UploadDir: fileStorage.Root(),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:           cfg,
		logger:        logger,
		pool:          pool,
		redisClient:   redisClient,
		producer:      producer,
		httpServer:    httpServer,
		sentryEnabled: sentryEnabled,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Kafka producer
// 3. Redis client
// 4. PostgreSQL pool
// 5. Sentry (flush pending reports)
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// 1. Drain in-flight HTTP requests (5s budget).
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 2. Close Kafka producer.
	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 3. Close Redis client.
	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// 4. Close PostgreSQL pool.
	a.pool.Close()

	// 5. Flush pending Sentry events.
	if a.sentryEnabled {
		sentry.Flush(2 * time.Second)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
