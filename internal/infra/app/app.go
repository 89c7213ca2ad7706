package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tablehive/backoffice/internal/core/port"
	"github.com/tablehive/backoffice/internal/infra/config"
	"github.com/tablehive/backoffice/internal/infra/database"
	kafkainfra "github.com/tablehive/backoffice/internal/infra/kafka"
	"github.com/tablehive/backoffice/internal/infra/logger"
	redisinfra "github.com/tablehive/backoffice/internal/infra/redis"
	"github.com/tablehive/backoffice/internal/infra/security"
	"github.com/tablehive/backoffice/internal/infra/telemetry"
	postgresrepo "github.com/tablehive/backoffice/internal/repository/postgres"
	redisrepo "github.com/tablehive/backoffice/internal/repository/redis"
	"github.com/tablehive/backoffice/internal/transport/http/middleware"
	"github.com/tablehive/backoffice/internal/transport/http/routes"
	"github.com/tablehive/backoffice/internal/usecase"
)

// Application owns the process-wide resources and the HTTP engine.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	tracer   *telemetry.TracerProvider
}

// New wires configuration into a runnable application.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if _, err := telemetry.Attach(ctx, cfg); err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	var tracer *telemetry.TracerProvider
	if cfg.Telemetry.TracingEnabled {
		tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	tokenManager, err := security.NewTokenManager(cfg.JWT)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	hasher, err := security.NewArgon2Hasher(port.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init password hasher: %w", err)
	}
	passwordPolicy := security.NewPasswordPolicy()

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka disabled, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	repos := postgresrepo.NewRepositories(pool)
	txManager := postgresrepo.NewTxManager(pool)
	auditTrail := usecase.NewAuditTrail(repos.AuditLogs, eventPublisher, log)

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	authorizer := usecase.NewAuthorizer(repos.Roles, repos.Permissions)

	services := routes.ServiceSet{
		Menus:         usecase.NewMenuService(repos.Menus),
		Roles:         usecase.NewRoleService(repos.Roles, txManager, auditTrail),
		Permissions:   usecase.NewPermissionService(repos.Roles, repos.Menus, repos.Permissions, txManager, auditTrail),
		Organizations: usecase.NewOrganizationService(repos.Organizations, repos.Statuses, txManager, auditTrail),
		Restaurants:   usecase.NewRestaurantService(repos.Restaurants, repos.Organizations, repos.Statuses, txManager, auditTrail),
		Products:      usecase.NewProductService(repos.Products, repos.Restaurants, repos.Statuses, txManager, auditTrail),
		Tables:        usecase.NewTableService(repos.Tables, repos.Restaurants, repos.Statuses, txManager, auditTrail),
		Orders:        usecase.NewOrderService(repos.Orders, repos.Statuses, txManager, auditTrail),
		Users:         usecase.NewUserService(repos.Users, repos.Roles, repos.Statuses, hasher, passwordPolicy, txManager, auditTrail),
		Statuses:      usecase.NewStatusService(repos.Statuses),
		AuditLogs:     usecase.NewAuditLogService(repos.AuditLogs),
	}

	deps := routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Services:    services,
		Tokens:      tokenManager,
		Users:       repos.Users,
		Authorizer:  authorizer,
		Database:    pool,
		Cache:       redisClient,
	}
	if tracer != nil {
		deps.Tracer = tracer.Tracer("http")
	}
	engine := routes.Register(deps)

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		tracer:   tracer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()
	defer func() {
		if a.tracer != nil {
			_ = a.tracer.Shutdown(context.Background())
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting back-office API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return nil
}
