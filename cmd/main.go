package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "praenforce/docs"
	"praenforce/internal/analytics"
	"praenforce/internal/caching"
	"praenforce/internal/config"
	"praenforce/internal/handlers"
	"praenforce/internal/jobs"
	"praenforce/internal/jobs/background"
	"praenforce/internal/middleware"
	"praenforce/internal/reconciler"
	"praenforce/internal/repositories"
	"praenforce/internal/services"
	"praenforce/pkg/database"
	"praenforce/pkg/logger"
)

const version = "1.0.0"

// @title PRA Enforcement Reports API
// @version 1.0
// @description Officer workloads, status changes, skip reasons and compliance visits for restaurant notice enforcement.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "praenforce")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database.URL, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, zlog)
	defer redisClient.Close()
	reportCache := caching.NewRedisReportCache(redisClient, zlog)

	minioClient, err := services.NewMinioClient(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		zlog.Fatal("failed to initialize minio client", zap.Error(err))
	}
	archive := services.NewReportArchive(minioClient, cfg.Minio.Bucket, zlog)
	if err := archive.EnsureBucketExists(ctx); err != nil {
		zlog.Warn("report bucket unavailable, snapshots will fail until it is reachable",
			zap.String("bucket", cfg.Minio.Bucket), zap.Error(err))
	}

	roster := cfg.Roster()
	tableSource := repositories.NewTableSource(pool)
	skipReasonRepo := repositories.NewSkipReasonRepo(pool)
	complianceUpdateRepo := repositories.NewComplianceUpdateRepo(pool)

	rec := reconciler.NewComplianceReconciler(cfg.Reports.StatusLabels)
	reportSvc := analytics.NewReportService(tableSource, reportCache, rec, cfg.Reports.CacheTTL, zlog)
	skipReasonSvc := services.NewSkipReasonService(skipReasonRepo, tableSource, zlog)
	complianceUpdateSvc := services.NewComplianceUpdateService(complianceUpdateRepo, tableSource, zlog)

	var keyFunc jwt.Keyfunc
	if cfg.Auth.JWKSURL != "" {
		jwks, err := middleware.NewJWKS(cfg.Auth.JWKSURL, zlog)
		if err != nil {
			zlog.Fatal("failed to load jwks", zap.String("url", cfg.Auth.JWKSURL), zap.Error(err))
		}
		defer jwks.EndBackground()
		keyFunc = jwks.Keyfunc
	}

	var scheduler *background.JobScheduler
	var jobRunner handlers.JobRunner
	if cfg.Reports.RefreshInterval > 0 {
		refresher := jobs.NewReportRefreshService(reportSvc, roster, archive, zlog)
		scheduler, err = background.NewJobScheduler(refresher, cfg.Reports.RefreshInterval, true, zlog)
		if err != nil {
			zlog.Fatal("failed to create job scheduler", zap.Error(err))
		}
		scheduler.Start()
		jobRunner = scheduler
	}

	reportHandlers := handlers.NewReportHandlers(reportSvc, roster, zlog)
	skipReasonHandlers := handlers.NewSkipReasonHandlers(skipReasonSvc, zlog)
	complianceUpdateHandlers := handlers.NewComplianceUpdateHandlers(complianceUpdateSvc, zlog)
	jobHandlers := handlers.NewJobHandlers(reportSvc, jobRunner, zlog)
	healthHandlers := handlers.NewHealthHandlers(tableSource, reportCache, archive, version, zlog)
	if scheduler != nil {
		healthHandlers.WithJobs(scheduler)
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	healthHandlers.RegisterRoutes(e)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	v1.Use(middleware.VersionHeader("v1"))
	v1.Use(echojwt.WithConfig(middleware.JWTConfig(cfg.Auth.JWTSecret, keyFunc)))
	v1.Use(middleware.SessionMiddleware(roster, zlog))
	v1.Use(middleware.AuditRequest(zlog))

	reportHandlers.RegisterRoutes(v1)
	skipReasonHandlers.RegisterRoutes(v1)
	complianceUpdateHandlers.RegisterRoutes(v1)
	jobHandlers.RegisterRoutes(v1)

	go func() {
		zlog.Info("server starting",
			zap.String("version", version),
			zap.String("port", cfg.Server.Port),
			zap.Int("officers", len(roster.OfficerIDs())))
		if err := e.Start(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			zlog.Error("scheduler shutdown failed", zap.Error(err))
		}
	}
}
