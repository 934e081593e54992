package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medical-center/config"
	deliveryHttp "medical-center/internal/delivery/http"
	"medical-center/internal/delivery/http/handler"
	"medical-center/internal/delivery/http/middleware"
	"medical-center/internal/infrastructure/cache"
	"medical-center/internal/infrastructure/database"
	"medical-center/internal/infrastructure/logger"
	"medical-center/internal/infrastructure/metrics"
	"medical-center/internal/repository"
	"medical-center/internal/service"
	"medical-center/internal/usecase"
	"medical-center/pkg/jwt"
	"medical-center/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Users       usecase.UserUsecase
	Server      *http.Server
}

// Dependencies are the connected resources the HTTP layer is built from.
type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Log      *logrus.Logger
	Registry *prometheus.Registry
	Now      func() time.Time
	Renderer service.ReportRenderer
}

// Components is the wired application.
type Components struct {
	Handler http.Handler
	Users   usecase.UserUsecase
	Metrics *metrics.Metrics
}

// New creates a new App instance with all dependencies initialized
func New(envPath string) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig(envPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := logger.New(cfg.Log)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	components := Build(Dependencies{
		Config:   cfg,
		DB:       db,
		Redis:    redisClient,
		Log:      log,
		Registry: registry,
	})
	app.Users = components.Users

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// Build wires repositories, services, usecases and handlers into a router.
func Build(d Dependencies) *Components {
	cfg := d.Config
	log := d.Log

	m := metrics.New(d.Registry)
	clock := usecase.NewClock(d.Now, cfg.Clinic.Location())

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator(cfg.Clinic.PhoneRegion)

	// Initialize repositories
	patientRepo := repository.NewPatientRepository()
	practitionerRepo := repository.NewPractitionerRepository()
	credentialRepo := repository.NewCredentialRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	examinationRepo := repository.NewExaminationRepository()
	recordRepo := repository.NewClinicalRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	sessions := service.NewRedisSessionStore(d.Redis, log)
	auditService := service.NewAuditService(log, auditLogRepo)
	renderer := d.Renderer
	if renderer == nil {
		renderer = service.NewPDFRenderer()
	}

	// Initialize usecases
	db := d.DB
	clinic := cfg.Clinic.Name
	patientUsecase := usecase.NewPatientUsecase(db, log, customValidator, clock, patientRepo, appointmentRepo, auditService)
	practitionerUsecase := usecase.NewPractitionerUsecase(db, log, customValidator, practitionerRepo, credentialRepo, appointmentRepo, auditService, sessions)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, customValidator, clock, cfg.Clinic.UpcomingLimit, m, appointmentRepo, patientRepo, practitionerRepo, auditService)
	examinationUsecase := usecase.NewExaminationUsecase(db, log, customValidator, clock, clinic, m, examinationRepo, appointmentRepo, patientRepo, practitionerRepo, auditService, renderer)
	recordUsecase := usecase.NewClinicalRecordUsecase(db, log, customValidator, clock, clinic, m, recordRepo, examinationRepo, patientRepo, practitionerRepo, auditService, renderer)
	authUsecase := usecase.NewAuthUsecase(db, log, customValidator, m, credentialRepo, auditService, jwtService, sessions)
	userUsecase := usecase.NewUserUsecase(db, log, customValidator, credentialRepo, auditService, sessions)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, customValidator, auditLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:           handler.NewAuthHandler(authUsecase),
		User:           handler.NewUserHandler(userUsecase),
		Patient:        handler.NewPatientHandler(patientUsecase),
		Practitioner:   handler.NewPractitionerHandler(practitionerUsecase),
		Appointment:    handler.NewAppointmentHandler(appointmentUsecase),
		Examination:    handler.NewExaminationHandler(examinationUsecase),
		ClinicalRecord: handler.NewClinicalRecordHandler(recordUsecase),
		AuditLog:       handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessions)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)
	requestMiddleware := middleware.NewRequestMiddleware(m, log)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, requestMiddleware, m)

	return &Components{
		Handler: router.Setup(),
		Users:   userUsecase,
		Metrics: m,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	return app.waitForShutdown(errCh)
}

// waitForShutdown blocks until an interrupt signal is received or the server fails
func (app *App) waitForShutdown(errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
