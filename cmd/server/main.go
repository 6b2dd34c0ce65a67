package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/stockpulse/stockpulse-go/internal/advisor"
	"github.com/stockpulse/stockpulse-go/internal/api"
	"github.com/stockpulse/stockpulse-go/internal/api/handlers"
	"github.com/stockpulse/stockpulse-go/internal/cache"
	"github.com/stockpulse/stockpulse-go/internal/config"
	"github.com/stockpulse/stockpulse-go/internal/logging"
	"github.com/stockpulse/stockpulse-go/internal/middleware"
	"github.com/stockpulse/stockpulse-go/internal/providers"
	"github.com/stockpulse/stockpulse-go/internal/services"
	"github.com/stockpulse/stockpulse-go/internal/telemetry"
)

const version = "1.0.0"

func main() {
	// .env is optional, real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.Environment)

	if err := telemetry.Init(version); err != nil {
		logger.Warnf("Tracing disabled: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(ctx); err != nil {
			logger.Warnf("Tracer shutdown failed: %v", err)
		}
	}()

	store, redisStore, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize cache store: %v", err)
	}
	if redisStore != nil {
		defer func() {
			if err := redisStore.Close(); err != nil {
				logger.Warnf("Redis close failed: %v", err)
			}
		}()
	}

	// Provider adapters
	chart := providers.NewChartClient(cfg.Providers.Chart)
	newsFeed := providers.NewNewsClient(cfg.Providers.News)
	fx := providers.NewFxClient(cfg.Providers.Fx)
	indicatorFeed := providers.NewIndicatorClient(cfg.Providers.Indicators)
	fundamentals := providers.NewFundamentalsClient(cfg.Providers.Fundamentals)
	demo := providers.NewDemoGenerator(cfg.Market.DemoSeed)
	advisorClient := advisor.NewClient(cfg.Advisor)

	// Services
	ttl := cfg.Cache.TTL
	demoFallback := cfg.Market.DemoFallback
	quotes := services.NewQuoteService(chart, demo, store, ttl, demoFallback, logger)
	news := services.NewNewsService(newsFeed, store, ttl, logger)
	indicators := services.NewIndicatorService(indicatorFeed, demo, store, ttl, demoFallback, logger)
	market := services.NewMarketService(quotes, fx, store, ttl, cfg.Fx, cfg.Market, logger)
	analysis := services.NewAnalysisService(advisorClient, indicators, news, fundamentals, store, ttl, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("stockpulse-api"))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	var checker handlers.HealthChecker
	if redisStore != nil {
		checker = redisStore
	}
	api.SetupRoutes(router, api.Handlers{
		Quote:    handlers.NewQuoteHandler(quotes, news, indicators),
		Market:   handlers.NewMarketHandler(market),
		Analysis: handlers.NewAnalysisHandler(analysis),
		Health:   handlers.NewHealthHandler(version, checker),
	}, middleware.NewAuthMiddleware(cfg.Security.JWTSecret), cfg.RateLimit.Requests, cfg.RateLimit.Window)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"environment": cfg.Environment,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}

// buildStore selects the cache backend. The Redis store is also returned
// separately so main can close it and feed the health check.
func buildStore(cfg *config.Config, logger *logrus.Logger) (cache.Store, *cache.RedisStore, error) {
	if cfg.Cache.Backend == "redis" {
		redisStore, err := cache.NewRedisStore(cfg.Cache.Redis.Addr(), cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("addr", cfg.Cache.Redis.Addr()).Info("Using Redis cache store")
		return redisStore, redisStore, nil
	}
	logger.Info("Using in-memory cache store")
	return cache.NewMemoryStore(), nil, nil
}
