package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kosarica/catalog-service/config"
	_ "github.com/kosarica/catalog-service/docs"
	"github.com/kosarica/catalog-service/internal/app"
	"github.com/kosarica/catalog-service/internal/database"
	"github.com/kosarica/catalog-service/internal/handlers"
	"github.com/kosarica/catalog-service/internal/middleware"
	"github.com/kosarica/catalog-service/internal/sweepers"
	"github.com/kosarica/catalog-service/internal/telemetry"
)

// @title Catalog Service API
// @version 1.0
// @description Internal API for catalog item facts and storefront exports.
// @BasePath /internal
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting catalog service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.ConfigFromEnv(telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		MetricInterval: cfg.Telemetry.MetricInterval,
	}))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	store, err := app.OpenStorage(ctx, cfg, *logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer database.Close()

	rec, err := app.OpenRecovery(ctx, cfg, *logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open recovery cache")
	}
	defer rec.Close()
	if rec.Memory != nil {
		go purgeRecovery(ctx, rec, logger)
	}

	catalogEngine, err := app.NewEngine(cfg, store, rec.Cache, *logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create engine")
	}
	defaultStore, matcher, err := app.Storefront(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to configure storefronts")
	}
	handlers.InitCatalog(catalogEngine, matcher, defaultStore)
	if rec.Pinger != nil {
		handlers.InitHealth(rec.Pinger)
	}

	var historySweeper *sweepers.PriceHistorySweeper
	if cfg.Sweeper.Enabled {
		sweeperLogger := logger.With().Str("component", "price_history_sweeper").Logger()
		historySweeper = sweepers.NewPriceHistorySweeper(catalogEngine, &sweeperLogger, cfg.Sweeper.Interval, cfg.Sweeper.Concurrency)
		go historySweeper.Start(ctx)
	}

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		IdleTimeout:       cfg.RateLimit.IdleTimeout,
	})
	go limiter.RunCleanup(ctx, time.Minute)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(*logger))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	internal := router.Group("/internal")
	if cfg.Server.InternalAPIKey != "" {
		internal.Use(middleware.InternalAuthMiddleware(cfg.Server.InternalAPIKey))
	} else {
		logger.Warn().Msg("Internal API key not set; /internal is unauthenticated")
	}
	internal.Use(middleware.RateLimitMiddleware(limiter))
	{
		internal.GET("/health", handlers.HealthCheck)

		facts := internal.Group("/facts/items")
		{
			facts.POST("", handlers.PostProductItem)
			facts.PUT("/:itemId/price", handlers.PutPrice)
			facts.PUT("/:itemId/inventory", handlers.PutInventory)
			facts.PUT("/:itemId/stock", handlers.PutStockBalance)
			facts.PUT("/:itemId/backorder", handlers.PutBackorder)
			facts.DELETE("/:itemId/:part", handlers.DeleteFact)
		}

		export := internal.Group("/export")
		{
			export.GET("/items/:itemId", handlers.ExportItem)
			export.GET("/products/:productId", handlers.ExportProduct)
		}

		internal.GET("/prices/:itemId", handlers.GetCurrentPrice)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	if historySweeper != nil {
		historySweeper.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to flush telemetry")
	}

	logger.Info().Msg("Server exited")
}

// purgeRecovery drops expired stashed facts of the in-process recovery cache.
func purgeRecovery(ctx context.Context, rec *app.Recovery, logger *zerolog.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if purged := rec.Memory.Purge(); purged > 0 {
				logger.Debug().Int("purged", purged).Msg("Purged expired stashed facts")
			}
		}
	}
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "catalog-service").Logger()
	return &logger
}
