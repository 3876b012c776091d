package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/timetable-api/api/swagger"
	"github.com/noah-isme/timetable-api/internal/handler"
	"github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/repository"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/cache"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/database"
	"github.com/noah-isme/timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-api/pkg/middleware/requestid"
)

// @title Timetable API
// @version 0.1.0
// @description School timetable scheduling and validation engine
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var viewCache *repository.CacheRepository
	if cfg.Timetable.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, published view caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			viewCache = repository.NewCacheRepository(redisClient, logr)
		}
	}

	configRepo := repository.NewScheduleConfigRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	requirementRepo := repository.NewRequirementRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)

	availabilitySvc := service.NewAvailabilityService(availabilityRepo, teacherRepo, nil, logr)

	sessionSvc := service.NewTimetableSessionService(
		configRepo,
		subjectRepo,
		roomRepo,
		requirementRepo,
		availabilityRepo,
		timetableRepo,
		db,
		viewCache,
		metricsSvc,
		nil,
		logr,
		service.TimetableSessionConfig{PublishedCacheTTL: cfg.Timetable.PublishedCacheTTL},
	)

	timetableHandler := handler.NewTimetableHandler(sessionSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	if cfg.Timetable.Enabled {
		timetables := api.Group("/timetables")
		timetables.GET("", timetableHandler.View)
		timetables.PUT("/slots", timetableHandler.PlaceSlot)
		timetables.DELETE("/slots", timetableHandler.ClearUnlocked)
		timetables.DELETE("/slots/:slotId", timetableHandler.RemoveSlot)
		timetables.POST("/slots/:slotId/lock", timetableHandler.ToggleLock)
		timetables.POST("/generate", timetableHandler.Regenerate)
		timetables.POST("/publish", timetableHandler.Publish)
		timetables.GET("/published", timetableHandler.Published)
	}
	api.GET("/teachers/:teacherId/availability", availabilityHandler.Get)
	api.PUT("/teachers/:teacherId/availability", availabilityHandler.Upsert)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
