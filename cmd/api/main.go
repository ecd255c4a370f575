package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/dominest-api/api/swagger"
	"github.com/noah-isme/dominest-api/internal/handler"
	"github.com/noah-isme/dominest-api/internal/repository"
	"github.com/noah-isme/dominest-api/internal/router"
	"github.com/noah-isme/dominest-api/internal/scheduler"
	"github.com/noah-isme/dominest-api/internal/service"
	"github.com/noah-isme/dominest-api/pkg/cache"
	"github.com/noah-isme/dominest-api/pkg/config"
	"github.com/noah-isme/dominest-api/pkg/database"
	"github.com/noah-isme/dominest-api/pkg/export"
	"github.com/noah-isme/dominest-api/pkg/jobs"
	"github.com/noah-isme/dominest-api/pkg/logger"
	"github.com/noah-isme/dominest-api/pkg/storage"
)

// @title Dominest API
// @version 1.0.0
// @description Dormitory administration backend: residents, documents, notices and staff tools.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(client, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	documents, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init document storage: %w", err)
	}
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return fmt.Errorf("init export storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	residentRepo := repository.NewResidentRepository(db)
	scheduleRepo := repository.NewRepeatScheduleRepository(db)
	noticeRepo := repository.NewDayNoticeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	parcelRepo := repository.NewParcelRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	cleanup := service.NewFileCleanupService(documents, metrics, logr, jobs.QueueConfig{
		Workers:    cfg.FileCleanup.Workers,
		MaxRetries: cfg.FileCleanup.MaxRetries,
		RetryDelay: cfg.FileCleanup.RetryDelay,
		Logger:     logr,
	})
	cleanup.Start(ctx)
	defer cleanup.Stop()

	bulk := service.NewBulkUploadProcessor(metrics, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	residentSvc := service.NewResidentService(residentRepo, cleanup, validate, logr)
	importSvc := service.NewResidentImportService(db, residentRepo, bulk, logr, cfg.Uploads.MaxExcelBytes)
	documentSvc := service.NewResidentDocumentService(residentRepo, documents, bulk, logr, cfg.Uploads.MaxPDFBytes)
	exportSvc := service.NewExportService(residentRepo, exportStore, signer, map[export.Format]export.Renderer{
		export.FormatCSV: export.NewCSVExporter(),
		export.FormatPDF: export.NewPDFExporter(cfg.Exports.PDFFontPath),
	}, metrics, logr, service.ExportConfig{APIPrefix: cfg.APIPrefix})
	scheduleSvc := service.NewRepeatScheduleService(db, scheduleRepo, noticeRepo, userRepo, cacheSvc, metrics, validate, logr, cfg.Schedules.MaxSpanDays)
	noticeSvc := service.NewDayNoticeService(noticeRepo, cacheSvc, validate, logr)
	calendarSvc := service.NewCalendarService(noticeRepo, cacheSvc)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, categoryRepo, userRepo, logr)
	parcelSvc := service.NewParcelService(parcelRepo, validate, logr)
	todoSvc := service.NewTodoService(todoRepo, userRepo, validate)

	jobsScheduler := scheduler.New(exportSvc, logr)
	if err := jobsScheduler.Register(cfg.Exports.CleanupSpec); err != nil {
		return fmt.Errorf("register export cleanup: %w", err)
	}
	jobsScheduler.Start()
	defer func() { <-jobsScheduler.Stop().Done() }()

	engine := router.New(router.Options{
		Env:                cfg.Env,
		APIPrefix:          cfg.APIPrefix,
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		MaxMultipartMemory: cfg.Uploads.MaxPDFBytes,
		Logger:             logr,
		Metrics:            metrics,
		Tokens:             authSvc,
	}, router.Handlers{
		Auth:            handler.NewAuthHandler(authSvc),
		Residents:       handler.NewResidentHandler(residentSvc, importSvc),
		Documents:       handler.NewResidentDocumentHandler(documentSvc, cfg.Uploads.MaxBatchFiles),
		Exports:         handler.NewExportHandler(exportSvc),
		RepeatSchedules: handler.NewRepeatScheduleHandler(scheduleSvc),
		DayNotices:      handler.NewDayNoticeHandler(noticeSvc),
		Calendar:        handler.NewCalendarHandler(calendarSvc),
		Favorites:       handler.NewFavoriteHandler(favoriteSvc),
		Parcels:         handler.NewParcelHandler(parcelSvc),
		Todos:           handler.NewTodoHandler(todoSvc),
		Metrics:         handler.NewMetricsHandler(metrics, db, logr),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		logr.Info("shutdown signal received, draining requests")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
