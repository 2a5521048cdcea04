package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boardinghouse/backend/internal/application/occupancy"
	"github.com/boardinghouse/backend/internal/infrastructure/config"
	"github.com/boardinghouse/backend/internal/infrastructure/directory"
	"github.com/boardinghouse/backend/internal/infrastructure/event"
	"github.com/boardinghouse/backend/internal/infrastructure/lock"
	"github.com/boardinghouse/backend/internal/infrastructure/logger"
	"github.com/boardinghouse/backend/internal/infrastructure/migration"
	"github.com/boardinghouse/backend/internal/infrastructure/persistence"
	"github.com/boardinghouse/backend/internal/infrastructure/telemetry"
	"github.com/boardinghouse/backend/internal/interfaces/http/handler"
	"github.com/boardinghouse/backend/internal/interfaces/http/middleware"
	"github.com/boardinghouse/backend/internal/interfaces/http/router"
	"github.com/boardinghouse/backend/migrations"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.FromAppConfig(cfg.Log, cfg.App.Env))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting boarding house backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry installs the global tracer provider that otelgin and
	// otelgorm pick up
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	if err := migrateSchema(db, cfg.Database, log); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	if cfg.Database.Driver == "sqlite" {
		dbTracing.DBSystem = "sqlite"
	}
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Occupancy locks
	locker, closeLocker, err := lock.NewFactory(cfg.Lock, cfg.Redis, lock.WithLogger(log)).CreateLocker()
	if err != nil {
		log.Fatal("Failed to create occupancy locker", zap.Error(err))
	}
	defer func() {
		if err := closeLocker(); err != nil {
			log.Warn("Error closing locker", zap.Error(err))
		}
	}()

	// Event bus
	bus := event.NewInMemoryEventBus(log, event.WithAsyncHandlers(cfg.Event.AsyncHandlers))
	if cfg.Event.LogEvents {
		logging := event.NewLoggingHandler(log)
		bus.Subscribe(logging, logging.EventTypes()...)
	}
	occupancyMetrics, err := telemetry.NewOccupancyMetricsFromProvider(meterProvider)
	if err != nil {
		log.Fatal("Failed to register occupancy metrics", zap.Error(err))
	}
	bus.Subscribe(occupancyMetrics, occupancyMetrics.EventTypes()...)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Repositories and services
	txScope := persistence.NewGormTransactionScope(db.DB)

	propertyService := occupancy.NewPropertyService(
		persistence.NewGormPropertyRepository(db.DB), txScope, locker, log)
	roomService := occupancy.NewRoomService(
		persistence.NewGormRoomRepository(db.DB),
		persistence.NewGormOccupancyRecordRepository(db.DB),
		txScope, locker, log,
	)
	requestService := occupancy.NewRequestService(
		persistence.NewGormRequestRepository(db.DB),
		occupancy.NewOccupancyMutator(log),
		txScope, locker, log,
	)

	propertyService.SetEventPublisher(bus)
	roomService.SetEventPublisher(bus)
	requestService.SetEventPublisher(bus)

	if cfg.Directory.BaseURL != "" {
		requestService.SetDirectory(directory.NewHTTPDirectory(cfg.Directory, log))
		log.Info("Tenant directory enabled", zap.String("base_url", cfg.Directory.BaseURL))
	}

	// HTTP
	engine := router.NewEngine(router.EngineConfig{
		Env:  cfg.App.Env,
		HTTP: cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Logger: log,
	})

	systemHandler := handler.NewSystemHandler(cfg.App.Name, serviceVersion, db)
	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine).
		Register(systemHandler.Routes()).
		Register(handler.NewPropertyHandler(propertyService).Routes()).
		Register(handler.NewRoomHandler(roomService).Routes()).
		Register(handler.NewRequestHandler(requestService).Routes()).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// migrateSchema prepares the schema when database.auto_migrate is set.
// SQLite is migrated from the models, PostgreSQL from the embedded SQL
// migrations.
func migrateSchema(db *persistence.Database, cfg config.DatabaseConfig, log *zap.Logger) error {
	if !cfg.AutoMigrate {
		return nil
	}
	if cfg.Driver == "sqlite" {
		return persistence.AutoMigrate(db.DB)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return runMigrations(sqlDB, log)
}

func runMigrations(sqlDB *sql.DB, log *zap.Logger) error {
	// The migrator is left open: closing it closes sqlDB too.
	m, err := migration.NewFromFS(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	return m.Up()
}
