package main

import (
	"time"

	"github.com/mlazarev/tracknest/internal/config"
	"github.com/mlazarev/tracknest/internal/handlers"
	"github.com/mlazarev/tracknest/internal/models"
	"github.com/mlazarev/tracknest/internal/services"
	"github.com/mlazarev/tracknest/internal/utils"
	"github.com/mlazarev/tracknest/pkg/cache"
	"github.com/mlazarev/tracknest/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// appServices holds the initialized services and handlers.
type appServices struct {
	db              *gorm.DB
	cache           *cache.Cache
	eventQueue      services.EventQueue
	worker          *services.Worker
	retentionCron   *cron.Cron
	authHandler     *handlers.AuthHandler
	projectHandler  *handlers.ProjectHandler
	issueHandler    *handlers.IssueHandler
	searchHandler   *handlers.SearchHandler
	activityHandler *handlers.ActivityHandler
	healthHandler   *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, cache,
// activity queue, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	db := models.GetDB()

	// Listing cache is optional; without Redis every read computes.
	var listCache *cache.Cache
	if cfg.Redis.Enabled {
		ttl := time.Duration(cfg.Redis.CacheTTLSecs) * time.Second
		c, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ttl)
		if err != nil {
			logger.Warnf("Redis unavailable, listing cache disabled: %v", err)
		} else {
			listCache = c
		}
	}

	// Activity event queue: async over Redis when available, otherwise
	// recorded in process.
	activityService := services.NewActivityService(db)
	eventQueue := services.InitEventQueue(cfg)
	if syncQueue, ok := eventQueue.(*services.SyncEventQueue); ok {
		syncQueue.SetProcessor(activityService.Record)
	}

	var worker *services.Worker
	if eventQueue.IsAsync() {
		worker = services.NewWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(activityService.Record)
			worker.Start()
		}
	}

	retentionCron := services.StartRetentionScheduler(db, cfg.Activity.RetentionDays)

	return &appServices{
		db:              db,
		cache:           listCache,
		eventQueue:      eventQueue,
		worker:          worker,
		retentionCron:   retentionCron,
		authHandler:     handlers.NewAuthHandler(db, &cfg.JWT, listCache),
		projectHandler:  handlers.NewProjectHandler(db, listCache),
		issueHandler:    handlers.NewIssueHandler(db, listCache),
		searchHandler:   handlers.NewSearchHandler(db),
		activityHandler: handlers.NewActivityHandler(db),
		healthHandler:   handlers.NewHealthHandler(),
	}
}

// shutdown gracefully stops background components.
func (s *appServices) shutdown() {
	if s.retentionCron != nil {
		s.retentionCron.Stop()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.eventQueue != nil {
		s.eventQueue.Close()
	}
	logger.Infof("Shutdown complete")
}
