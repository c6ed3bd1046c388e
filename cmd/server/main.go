package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/leadbill/backend/docs"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/leadbill/backend/internal/infrastructure/cache"
	"github.com/leadbill/backend/internal/infrastructure/config"
	"github.com/leadbill/backend/internal/infrastructure/export"
	"github.com/leadbill/backend/internal/infrastructure/logger"
	"github.com/leadbill/backend/internal/infrastructure/persistence"
	"github.com/leadbill/backend/internal/infrastructure/storage"
	"github.com/leadbill/backend/internal/infrastructure/telemetry"
	"github.com/leadbill/backend/internal/interfaces/http/handler"
	"github.com/leadbill/backend/internal/interfaces/http/middleware"
	"github.com/leadbill/backend/internal/interfaces/http/router"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//	@title			Lead Billing API
//	@version		1.0
//	@description	Records customers, products, leads and lead actions, and generates billing reports with duplicate detection and a billing cap.

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	otelCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		ServiceName:       cfg.Telemetry.ServiceName,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ExportInterval:    cfg.Telemetry.ExportInterval,
	}

	logProvider, err := telemetry.NewLoggerProvider(ctx, otelCfg, cfg.Telemetry.LogsEnabled, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = logProvider.Bridge(log)

	log.Info("Starting lead billing service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, otelCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, otelCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTracing,
		DBName:  cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to enable database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	catalog, err := cfg.Billing.Catalog()
	if err != nil {
		log.Fatal("Invalid pricing catalog", zap.Error(err))
	}

	billingMetrics, err := telemetry.NewBillingMetrics(meterProvider.Meter("leadbill/billing"))
	if err != nil {
		log.Fatal("Failed to create billing metrics", zap.Error(err))
	}

	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	actionRepo := persistence.NewGormActionRepository(db.DB)
	reportRepo := persistence.NewGormBillingReportRepository(db.DB)
	fileRepo := persistence.NewGormReportFileRepository(db.DB)

	customerService := billingapp.NewCustomerService(customerRepo, log)
	productService := billingapp.NewProductService(productRepo, log)
	leadService := billingapp.NewLeadService(leadRepo, actionRepo, customerRepo, productRepo, billingMetrics, log)

	reportConfig := billingapp.DefaultBillingReportServiceConfig()
	reportConfig.DefaultFormat = cfg.Billing.DefaultFormat
	if reportConfig.DefaultFormat == "none" {
		reportConfig.DefaultFormat = ""
	}
	reportConfig.KeyPrefix = cfg.Storage.KeyPrefix
	reportService := billingapp.NewBillingReportService(
		customerRepo, productRepo, actionRepo, reportRepo, fileRepo,
		billing.NewPricer(catalog),
		billing.NewReportEngine(catalog, billing.WithOrdering(cfg.Billing.OrderingPolicy())),
		log,
		reportConfig,
	)
	reportService.RegisterRenderer(export.NewTextRenderer(language.English))
	reportService.RegisterRenderer(export.NewXLSXRenderer())
	reportService.SetMetrics(billingMetrics)

	fileStore, err := storage.NewReportFileStore(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize report storage", zap.Error(err))
	}
	if fileStore != nil {
		reportService.SetFileStore(fileStore)
	}

	reportCache, err := cache.NewReportCacheFactory(cfg.Redis, cache.WithLogger(log)).CreateCache(ctx)
	if err != nil {
		log.Fatal("Failed to initialize report cache", zap.Error(err))
	}
	reportService.SetCache(reportCache)

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validation", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled()),
		middleware.SpanAttributes(),
		middleware.SpanErrorMarker(),
		middleware.Profiling(profiler.IsEnabled(), "/health", "/health/ping"),
		middleware.HTTPMetrics(meterProvider.Meter("leadbill/http")),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	router.Setup(engine, router.Handlers{
		Customer:      handler.NewCustomerHandler(customerService),
		Product:       handler.NewProductHandler(productService),
		Lead:          handler.NewLeadHandler(leadService),
		BillingReport: handler.NewBillingReportHandler(reportService),
		Health:        handler.NewHealthHandler(cfg.App.Name, telemetry.ServiceVersion, db),
	})

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := reportCache.Close(); err != nil {
		log.Warn("Error closing report cache", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
