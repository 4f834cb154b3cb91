package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/pos/backend/internal/application/catalog"
	tradeapp "github.com/pos/backend/internal/application/trade"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/event"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//	@title			POS Backend API
//	@version		1.0
//	@description	Point-of-sale pricing, sales and returns
//	@BasePath		/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting POS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer shutdown(log, "tracer provider", tracerProvider.Shutdown)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer shutdown(log, "meter provider", meterProvider.Shutdown)

	// Database
	db, err := persistence.NewDatabase(&cfg.Database, persistence.Options{
		Logger:        log,
		LogLevel:      logger.MapGormLogLevel(cfg.Log.Level),
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
		TraceEnabled:  cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == config.DriverSQLite || cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
		log.Info("Schema auto-migrated")
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Idempotency store and event publisher
	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		store, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
		if err != nil {
			return err
		}
		idempotencyStore = store
		defer closeIfCloser(log, "idempotency store", store)
	}

	publisher, err := event.NewPublisher(cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer closeIfCloser(log, "event publisher", publisher)

	// Repositories and services
	productRepo := persistence.NewGormProductRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	productService := catalogapp.NewProductService(productRepo, log)
	productService.SetEventPublisher(publisher)
	pricingService := catalogapp.NewPricingService()
	saleService := tradeapp.NewSaleService(saleRepo, txScope, log)
	saleService.SetEventPublisher(publisher)
	returnService := tradeapp.NewReturnService(saleRepo, txScope, log)
	returnService.SetEventPublisher(publisher)

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:          meterProvider.Meter("pos-backend/business"),
		Logger:         log,
		StockProvider:  productRepo,
		StockThreshold: cfg.Telemetry.LowStockThreshold,
	})
	if err != nil {
		return err
	}
	defer businessMetrics.Stop()
	saleService.SetBusinessMetrics(businessMetrics)
	returnService.SetBusinessMetrics(businessMetrics)
	if meterProvider.IsEnabled() {
		businessMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := router.NewEngine(router.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: tracerProvider.IsEnabled(),
		CORS: middleware.CORSConfig{
			AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
			AllowMethods:  cfg.HTTP.CORSAllowMethods,
			AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        middleware.DefaultCORSConfig().MaxAge,
		},
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		IdempotencyTTL: cfg.Idempotency.TTL,
	}, router.Handlers{
		Health:  handler.NewHealthHandler(db),
		Product: handler.NewProductHandler(productService),
		Pricing: handler.NewPricingHandler(pricingService),
		Sale:    handler.NewSaleHandler(saleService),
		Return:  handler.NewReturnHandler(returnService),
	}, router.Dependencies{
		Logger:      log,
		Metrics:     telemetry.NewHTTPMetrics(),
		Idempotency: idempotencyStore,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func shutdown(log *zap.Logger, name string, fn func(context.Context) error) {
	if err := fn(context.Background()); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}

func closeIfCloser(log *zap.Logger, name string, v any) {
	c, ok := v.(event.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.Error("Error closing "+name, zap.Error(err))
	}
}
