package main

import (
	"alcyxob/kinevo/internal/api"
	"alcyxob/kinevo/internal/cache"
	"alcyxob/kinevo/internal/config"
	"alcyxob/kinevo/internal/metrics"
	"alcyxob/kinevo/internal/repository/mongo"
	"alcyxob/kinevo/internal/service"
	"alcyxob/kinevo/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// @title Kinevo Training API
// @version 1.0
// @description Coaches plan weekly training programs; students log sessions and follow their calendar, streaks and adherence.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Infoln("starting kinevo server ...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	loc, err := cfg.Calendar.Location()
	if err != nil {
		log.Fatalf("calendar timezone: %s", err)
	}
	log.Infof("calendar timezone: %s, match mode: %s", loc, cfg.Calendar.MatchMode)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to mongodb: %s", err)
	}
	defer func() {
		log.Debugln("disconnecting mongodb ...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect mongodb: %s", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Infof("connected to database %s", cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Debugln("index creation completed")
	}()

	// --- Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.AccessKeyID == "" {
		log.Warnln("s3 credentials not set, reports are kept in memory")
		fileStorage = storage.NewMemoryStorage()
	} else {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize s3 storage: %s", err)
		}
	}

	// --- Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	reportRepo := mongo.NewMongoReportExportRepository(appDB)

	// --- Services ---
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, cfg.Metrics.Subsystem, prometheus.DefaultRegisterer)
	progressCache := cache.NewProgressCache(cfg.Cache.SizeMB, cfg.Cache.TTL)
	settings := service.CalendarSettings{
		Location: loc,
		Match:    service.ParseMatchMode(cfg.Calendar.MatchMode),
	}

	services := api.Services{
		Auth:     service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		Coach:    service.NewCoachService(userRepo, programRepo, workoutRepo, progressCache),
		Student:  service.NewStudentService(programRepo, workoutRepo, sessionRepo, progressCache, metricsManager),
		Calendar: service.NewCalendarService(programRepo, workoutRepo, sessionRepo, progressCache, settings, metricsManager),
		Export:   service.NewExportService(programRepo, workoutRepo, sessionRepo, reportRepo, fileStorage, settings, metricsManager),
	}

	// --- HTTP ---
	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger())
	api.SetupRoutes(router, services, loc, metricsManager, prometheus.DefaultGatherer)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infof("received %s, shutting down ...", sig)

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}

	log.Infoln("server exiting")
}
