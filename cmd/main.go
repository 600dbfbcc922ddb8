package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/fairgroundhq/trellis/config"
	assignmentrepo "github.com/fairgroundhq/trellis/internal/repositories/assignment"
	companyrepo "github.com/fairgroundhq/trellis/internal/repositories/company"
	mergelogrepo "github.com/fairgroundhq/trellis/internal/repositories/mergelog"
	noterepo "github.com/fairgroundhq/trellis/internal/repositories/note"
	profilerepo "github.com/fairgroundhq/trellis/internal/repositories/profile"
	tagrepo "github.com/fairgroundhq/trellis/internal/repositories/tag"
	"github.com/fairgroundhq/trellis/pkg/database"
	"github.com/fairgroundhq/trellis/pkg/dedupe"
	"github.com/fairgroundhq/trellis/pkg/events"
	"github.com/fairgroundhq/trellis/pkg/kafka"
	"github.com/fairgroundhq/trellis/pkg/logging"
	"github.com/fairgroundhq/trellis/pkg/merging"
	"github.com/fairgroundhq/trellis/pkg/middleware"
	rediscache "github.com/fairgroundhq/trellis/pkg/redis"
	companyroutes "github.com/fairgroundhq/trellis/pkg/routes/company"
	duplicateroutes "github.com/fairgroundhq/trellis/pkg/routes/duplicates"
	"github.com/fairgroundhq/trellis/pkg/routes/health"
	leaderboardroutes "github.com/fairgroundhq/trellis/pkg/routes/leaderboard"
	"github.com/fairgroundhq/trellis/pkg/scheduler"
	"github.com/fairgroundhq/trellis/pkg/scoring"
	"github.com/fairgroundhq/trellis/pkg/startup"
	"github.com/fairgroundhq/trellis/pkg/tracing"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	environment := "production"
	if cfg.PrettyLogs {
		environment = "development"
	}
	logger, flushLogs, err := logging.New(cfg.AppName, environment, cfg.LogLevel)
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer flushLogs()

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.TracingEnabled,
		ServiceName: cfg.AppName,
		Endpoint:    cfg.TracingOTLPEndpoint,
		Protocol:    cfg.TracingOTLPProtocol,
		Insecure:    cfg.TracingInsecure,
	})
	if err != nil {
		logger.WithError(err).Error("failed to init tracing")
		os.Exit(1)
	}

	db, err := database.Connect(database.Config{
		Host:            cfg.DatabaseHost,
		Port:            cfg.DatabasePort,
		User:            cfg.DatabaseUserName,
		Password:        cfg.DatabasePassword,
		Name:            cfg.DatabaseName,
		SSLMode:         cfg.DatabaseSSLMode,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("failed to connect to database")
		os.Exit(1)
	}

	migrationDriver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		logger.WithError(err).Error("failed to create migration driver")
		os.Exit(1)
	}
	migrations := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
	})
	if err := migrations.Migrate(cfg.DatabaseName, migrationDriver); err != nil {
		logger.WithError(err).Error("failed to run migrations")
		os.Exit(1)
	}

	var producer *kafka.Producer
	var emitter *events.Emitter
	if cfg.KafkaEventsEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaEventsTopic,
			BatchSize:    cfg.KafkaProducerBatchSize,
			BatchTimeout: cfg.KafkaProducerBatchWindow,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		emitter = events.NewEmitter(producer)
	}

	var redisClient *rediscache.Client
	if cfg.RedisEnabled {
		redisClient, err = rediscache.NewClient(rediscache.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, leaderboard cache disabled")
			redisClient = nil
		}
	}

	companies := companyrepo.NewRepository(db, logger)
	tags := tagrepo.NewRepository(db, logger)
	assignments := assignmentrepo.NewRepository(db, logger)
	notes := noterepo.NewRepository(db, logger)
	profiles := profilerepo.NewRepository(db, logger)
	mergeLogs := mergelogrepo.NewRepository(db, logger)

	var scanEvents dedupe.EventEmitter
	var mergeEvents merging.EventEmitter
	if emitter != nil {
		scanEvents = emitter
		mergeEvents = emitter
	}
	dedupeService := dedupe.NewService(logger, companies, scanEvents)
	mergeEngine := merging.NewEngine(logger, companies, tags, assignments, notes, mergeLogs, mergeEvents)

	var leaderboardCache scoring.Cache
	if redisClient != nil {
		leaderboardCache = redisClient
	}
	leaderboardService := scoring.NewLeaderboardService(logger, profiles, assignments, companies, leaderboardCache, cfg.LeaderboardCacheTTL)

	if err := registerDependencies(companies, tags, assignments, notes, mergeLogs, dedupeService, mergeEngine, leaderboardService); err != nil {
		logger.WithError(err).Error("failed to build DI container")
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	var redisPinger health.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	checker := health.NewChecker(db, redisPinger, version)
	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	companyroutes.Register(api.Group("/companies"))
	duplicateroutes.Register(api.Group("/duplicates"))
	leaderboardroutes.Register(api.Group("/leaderboard"))

	var scanScheduler *scheduler.Scheduler
	if cfg.DuplicateScanEnabled {
		scanScheduler = scheduler.New(logger, dedupeService, cfg.DuplicateScanSpec)
	}

	manager := startup.New(logger, cfg.StartupMaxAttempts)
	manager.AddDependency(&dependency{
		name:  "database",
		start: db.PingContext,
		stop:  func(context.Context) error { return db.Close() },
	})
	if redisClient != nil {
		manager.AddDependency(&dependency{
			name:  "redis",
			start: redisClient.Ping,
			stop:  func(context.Context) error { return redisClient.Close() },
		})
	}
	if producer != nil {
		manager.AddDependency(&dependency{
			name:  "kafka-producer",
			start: func(context.Context) error { return nil },
			stop:  func(context.Context) error { return producer.Close() },
		})
	}
	if scanScheduler != nil {
		manager.AddDependency(&dependency{
			name:  "duplicate-scan-scheduler",
			start: scanScheduler.Start,
			stop: func(ctx context.Context) error {
				scanScheduler.Stop(ctx)
				return nil
			},
		})
	}

	if err := manager.Start(ctx); err != nil {
		logger.WithError(err).Error("startup failed")
		os.Exit(1)
	}
	checker.SetReady(true)

	serverErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf(":%d", cfg.Port)
		logger.WithField("address", address).Info("starting HTTP server")
		serverErr <- e.Start(address)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("shutdown signal received")
	case err := <-serverErr:
		logger.WithError(err).Error("HTTP server stopped")
	}
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("failed to shut down HTTP server")
	}
	if err := manager.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("failed to stop dependencies")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.WithError(err).Error("failed to flush traces")
	}
	logger.Info("shutdown complete")
}

// registerDependencies builds the default DI container the route handlers
// resolve repositories and services from.
func registerDependencies(
	companies *companyrepo.Repository,
	tags *tagrepo.Repository,
	assignments *assignmentrepo.Repository,
	notes *noterepo.Repository,
	mergeLogs *mergelogrepo.Repository,
	dedupeService *dedupe.Service,
	mergeEngine *merging.Engine,
	leaderboardService *scoring.LeaderboardService,
) error {
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return err
	}

	if err := ectoinject.RegisterInstance[*companyrepo.Repository](container, companies); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*tagrepo.Repository](container, tags); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*assignmentrepo.Repository](container, assignments); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*noterepo.Repository](container, notes); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*mergelogrepo.Repository](container, mergeLogs); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*dedupe.Service](container, dedupeService); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*merging.Engine](container, mergeEngine); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*scoring.LeaderboardService](container, leaderboardService); err != nil {
		return err
	}
	return nil
}

// dependency adapts start/stop funcs to the startup.Dependency interface.
type dependency struct {
	name  string
	start func(ctx context.Context) error
	stop  func(ctx context.Context) error
}

func (d *dependency) GetName() string { return d.name }

func (d *dependency) Start(ctx context.Context) error { return d.start(ctx) }

func (d *dependency) Stop(ctx context.Context) error { return d.stop(ctx) }
