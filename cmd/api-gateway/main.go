package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusops/course-reg-api/api/swagger"
	"github.com/campusops/course-reg-api/internal/handler"
	"github.com/campusops/course-reg-api/internal/middleware"
	"github.com/campusops/course-reg-api/internal/models"
	"github.com/campusops/course-reg-api/internal/repository"
	"github.com/campusops/course-reg-api/internal/service"
	"github.com/campusops/course-reg-api/pkg/cache"
	"github.com/campusops/course-reg-api/pkg/config"
	"github.com/campusops/course-reg-api/pkg/database"
	"github.com/campusops/course-reg-api/pkg/logger"
	corsmiddleware "github.com/campusops/course-reg-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusops/course-reg-api/pkg/middleware/requestid"
)

const shutdownGrace = 15 * time.Second

// @title Course Registration API
// @version 1.0.0
// @description Course scheduling core: recurring schedule builder, makeup overlays, room availability
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	scheduleRows := repository.NewScheduleRowRepository(db)
	makeups := repository.NewMakeupRepository(db)
	commitments := repository.NewCommitmentRepository(db)
	classes := repository.NewClassRepository(db)
	programs := repository.NewProgramRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	rooms := repository.NewRoomRepository(db, cacheRepo, cfg.Rooms.CacheTTL, logr)
	attendance := repository.NewAttendanceRepository(db)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.JWT.Secret)

	notificationSvc := service.NewNotificationService(nil, cfg.Notifications, logr)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	overlaySvc := service.NewOverlayService(scheduleRows, makeups, commitments, classes, programs, enrollments, notificationSvc, metricsSvc, logr)
	builderSvc := service.NewBuilderService(scheduleRows, classes, programs, commitments, metricsSvc, logr)
	roomSvc := service.NewRoomService(rooms, commitments, logr)
	exportSvc := service.NewExportService(overlaySvc, classes)
	attendanceSvc := service.NewAttendanceService(attendance, overlaySvc, cfg.Attendance.WeekPolicy, logr)

	builderDrafts := service.NewBuilderDraftStore(cfg.Scheduler.DraftTTL)
	overlayDrafts := service.NewOverlayDraftStore(cfg.Scheduler.DraftTTL)

	builderHandler := handler.NewScheduleBuilderHandler(builderSvc, overlaySvc, builderDrafts)
	overlayHandler := handler.NewOverlayHandler(overlaySvc, overlayDrafts)
	roomHandler := handler.NewRoomHandler(roomSvc, classes)
	exportHandler := handler.NewExportHandler(exportSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	{
		tutorOnly := middleware.RequireRoles(models.RoleTutor, models.RoleAdmin)

		api.GET("/classes/:id/schedule", builderHandler.EffectiveSchedule)
		api.POST("/classes/:id/schedule/draft", tutorOnly, builderHandler.Draft)
		api.POST("/classes/:id/schedule", tutorOnly, builderHandler.Submit)
		api.GET("/classes/:id/schedule/export", exportHandler.ExportWeek)

		api.POST("/classes/:id/makeup/draft", tutorOnly, overlayHandler.Draft)
		api.POST("/classes/:id/makeup", tutorOnly, overlayHandler.Save)

		api.GET("/classes/:id/attendance/week", attendanceHandler.WeekAttendance)

		api.GET("/rooms/availability", tutorOnly, roomHandler.Availability)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	// Drain in-flight requests on SIGINT/SIGTERM before the deferred
	// notification queue shutdown runs.
	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
