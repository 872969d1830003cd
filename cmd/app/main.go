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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "cs2-giveaway-backend/docs"
	"cs2-giveaway-backend/internal/common/cache"
	"cs2-giveaway-backend/internal/common/config"
	"cs2-giveaway-backend/internal/common/logger"
	"cs2-giveaway-backend/internal/common/middleware"
	"cs2-giveaway-backend/internal/features/diag"
	diagHTTP "cs2-giveaway-backend/internal/features/diag/delivery/http"
	giveawayHTTP "cs2-giveaway-backend/internal/features/giveaway/delivery/http"
	giveawayRedis "cs2-giveaway-backend/internal/features/giveaway/repository/redis"
	giveawayService "cs2-giveaway-backend/internal/features/giveaway/service"
	marketHTTP "cs2-giveaway-backend/internal/features/market/delivery/http"
	marketService "cs2-giveaway-backend/internal/features/market/service"
	subscriptionHTTP "cs2-giveaway-backend/internal/features/subscription/delivery/http"
	subscriptionService "cs2-giveaway-backend/internal/features/subscription/service"
	"cs2-giveaway-backend/internal/platform/redis"
	"cs2-giveaway-backend/internal/platform/telegram"
)

// @title           CS2 Giveaway API
// @version         1.0
// @description     Backend for a Telegram Mini App running CS2 skin giveaways.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name init_data
// @description Telegram Mini App init_data string for authentication

// @tag.name giveaways
// @tag.description Giveaway lifecycle - creation, participation, ending

// @tag.name subscription
// @tag.description Channel subscription checks

// @tag.name market
// @tag.description CS2 marketplace item search

// @tag.name diagnostics
// @tag.description Bounded log of recent boundary failures

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.Load()
	logger.Init("cs2-giveaway-backend", cfg.Debug)

	logger.Info().
		Bool("debug", cfg.Debug).
		Msg("Starting CS2 Giveaway Backend")

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := redis.Open(startCtx, cfg)
	startCancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	cacheService := cache.NewCacheService(redisClient)
	diagLog := diag.NewLog(redisClient)

	telegramClient := telegram.NewClient(cfg.Telegram.BotToken)
	if !telegramClient.HasToken() {
		logger.Warn().Msg("BOT_TOKEN not set, subscription checks run in fail-open mode")
	}

	giveawayRepository := giveawayRedis.NewRedisGiveawayRepository(redisClient.Client)

	announcer := giveawayService.NewTelegramAnnouncer(telegramClient, cfg)
	subscriptionSvc := subscriptionService.NewSubscriptionService(telegramClient, cfg, diagLog)
	giveawaySvc := giveawayService.NewGiveawayService(giveawayRepository, subscriptionSvc, announcer, cfg)
	rateSvc := marketService.NewRateService(cacheService, cfg)
	searchSvc := marketService.NewSearchService(rateSvc, diagLog, cfg)

	sweep := giveawayService.NewExpirationService(giveawayRepository, cfg, announcer, diagLog)
	sweep.Start()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.HandleErrors())
	router.Use(middleware.ErrorHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "init_data", "X-User-ID"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.TelegramIdentity(cfg))

	giveawayHTTP.NewGiveawayHandler(giveawaySvc, cfg).RegisterRoutes(v1)
	subscriptionHTTP.NewSubscriptionHandler(subscriptionSvc).RegisterRoutes(v1)
	marketHTTP.NewMarketHandler(searchSvc).RegisterRoutes(v1)
	diagHTTP.NewDiagHandler(diagLog, cfg).RegisterRoutes(v1)

	registerProbes(router, redisClient)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	sweep.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func registerProbes(router *gin.Engine, redisClient *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "cs2-giveaway-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "cs2-giveaway-backend",
		})
	})
}
