package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
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

// @title University Timetable API
// @version 1.0.0
// @description Scheduling-conflict detection, free-slot suggestion and versioned timetable storage
// @BasePath /
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

	if err := database.Migrate(db); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	sessionRepo := repository.NewSessionRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	lecturerRepo := repository.NewLecturerRepository(db)
	lockRepo := repository.NewLockRepository(redisClient, cfg.Lock.TTL)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	txRunner := repository.NewTxRunner(db)

	metricsSvc := service.NewMetricsService()
	clashSvc := service.NewClashService(sessionRepo, classroomRepo, cfg.Scheduling, logr)
	suggestSvc := service.NewSuggestService(sessionRepo, classroomRepo, cfg.Scheduling, logr)
	timetableSvc := service.NewTimetableService(sessionRepo, versionRepo, classroomRepo, lockRepo, txRunner, cacheRepo, validate, cfg, logr)
	lockSvc := service.NewLockService(lockRepo, logr)
	rosterSvc := service.NewRosterService(lecturerRepo, classroomRepo)

	clashHandler := handler.NewClashHandler(clashSvc, metricsSvc)
	suggestHandler := handler.NewSuggestHandler(suggestSvc, metricsSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, rosterSvc, metricsSvc)
	lockHandler := handler.NewLockHandler(lockSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	authed := api.Group("", middleware.JWT(cfg.JWT.Secret))
	authed.GET("/timetable", timetableHandler.Fetch)
	authed.GET("/timetable/lecturers", timetableHandler.Lecturers)
	authed.GET("/timetable/classes", timetableHandler.Classrooms)
	authed.GET("/timetable/check_lock", lockHandler.CheckLock)

	admin := authed.Group("", middleware.RequireAdmin())
	admin.POST("/clash_detect", clashHandler.Detect)
	admin.POST("/free_slots", suggestHandler.Suggest)
	admin.POST("/timetable/save", timetableHandler.Save)
	admin.GET("/timetable/lock", lockHandler.Lock)
	admin.GET("/timetable/release", lockHandler.Release)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
