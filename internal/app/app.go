package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"course-service/internal/config"
	"course-service/internal/course"
	"course-service/internal/db"
	"course-service/internal/enrollment"
	"course-service/internal/events"
	"course-service/internal/health"
	"course-service/internal/logger"
	"course-service/internal/middleware"
	"course-service/internal/resource"
	"course-service/internal/storage"
	"course-service/internal/telemetry"
	"course-service/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

type App struct {
	config    *config.Config
	router    *gin.Engine
	server    *http.Server
	db        *bun.DB
	publisher events.Publisher
	telemetry *telemetry.Telemetry
	logger    *slog.Logger
}

func New() *App {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slogLogger := logger.NewWithServiceContext(cfg.Log, ServiceName, Version, cfg.Env)

	// Set as default logger so slog.Info() goes through the same handlers
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "version", Version, "commit", GitCommit, "log_level", cfg.Log.Level)

	ctx := context.Background()

	tel, err := telemetry.Init(ctx, cfg.Telemetry, ServiceName, Version, slogLogger)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	m := tel.Metrics

	database, err := db.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := m.Database.RegisterDB(database.DB, otel.Meter(ServiceName)); err != nil {
		slogLogger.Warn("failed to register database pool metrics", "error", err)
	}

	if err := db.RunMigrations(ctx, database, db.Schema()...); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	files, err := storage.NewLocal(cfg.Storage.Root, cfg.Storage.MaxUploadBytes)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	slogLogger.Info("storage initialized", "root", cfg.Storage.Root)

	publisher, err := events.New(cfg.Events, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize event publisher, events disabled", "driver", cfg.Events.Driver, "error", err)
		publisher = events.Noop{}
	}
	emitter := events.NewEmitter(publisher, slogLogger, m)

	app := &App{
		config:    cfg,
		router:    gin.New(),
		db:        database,
		publisher: publisher,
		telemetry: tel,
		logger:    slogLogger,
	}

	app.router.Use(gin.Recovery())
	app.router.Use(logger.RequestLogger(slogLogger, "/health", "/ready"))
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	app.router.Use(middleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))

	healthHandler := health.NewHandler(database, slogLogger, m)
	healthHandler.RegisterRoutes(app.router)

	userRepo := user.NewRepository(database, m)
	userService := user.NewService(userRepo, emitter)
	userHandler := user.NewHandler(userService, slogLogger, m)
	userHandler.RegisterRoutes(app.router)

	courseRepo := course.NewRepository(database, m)
	courseService := course.NewService(courseRepo, files, emitter, slogLogger)
	courseHandler := course.NewHandler(courseService, slogLogger, m)
	courseHandler.RegisterRoutes(app.router)

	resourceRepo := resource.NewRepository(database, m)
	resourceService := resource.NewService(resourceRepo, courseService, files, emitter, slogLogger)
	resourceHandler := resource.NewHandler(resourceService, cfg.Storage.MaxUploadBytes, slogLogger, m)
	resourceHandler.RegisterRoutes(app.router)

	enrollmentRepo := enrollment.NewRepository(database, m)
	enrollmentService := enrollment.NewService(enrollmentRepo, userRepo, emitter)
	enrollmentHandler := enrollment.NewHandler(enrollmentService, slogLogger, m)
	enrollmentHandler.RegisterRoutes(app.router)

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var shutdownErr error
	if a.server != nil {
		shutdownErr = a.server.Shutdown(ctx)
	}

	if err := a.publisher.Close(); err != nil {
		a.logger.Error("event publisher close error", "error", err)
	}
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Error("telemetry shutdown error", "error", err)
	}
	db.Close(a.db)

	return shutdownErr
}
