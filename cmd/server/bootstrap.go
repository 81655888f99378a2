package main

import (
	"os"

	"github.com/careerhub/careerhub/backend/internal/config"
	"github.com/careerhub/careerhub/backend/internal/handlers"
	"github.com/careerhub/careerhub/backend/internal/models"
	"github.com/careerhub/careerhub/backend/internal/services"
	"github.com/careerhub/careerhub/backend/internal/utils"
	"github.com/careerhub/careerhub/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg                *config.Config
	notifier           *services.NotificationService
	membershipService  *services.MembershipService
	applicationService *services.ApplicationService
	taskQueue          services.TaskQueue
	worker             *services.Worker
	authHandler        *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if cfg.Upload.Dir != "" {
		if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
			logger.Warn().Err(err).Str("dir", cfg.Upload.Dir).Msg("Failed to create upload directory")
		}
	}

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitSystemLogger(models.GetDB())
	services.StartLogCleanupScheduler(models.GetDB())
	services.StartPresenceJanitor()

	// Notification delivery: Redis-backed queue when enabled, otherwise a
	// goroutine-based sync queue in the same process.
	hub := services.GetPresenceHub()
	taskQueue := services.InitTaskQueue(cfg)
	notifier := services.NewNotificationService(models.GetDB(), hub, taskQueue)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notifier.Deliver)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(notifier.Deliver)
			worker.Start()
		}
	}

	membershipService := services.NewMembershipService(models.GetDB(), notifier)
	applicationService := services.NewApplicationService(models.GetDB(), membershipService, notifier)

	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		cfg:                cfg,
		notifier:           notifier,
		membershipService:  membershipService,
		applicationService: applicationService,
		taskQueue:          taskQueue,
		worker:             worker,
		authHandler:        authHandler,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	services.StopLogCleanupScheduler()
	services.StopPresenceJanitor()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
