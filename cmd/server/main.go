package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/api"
	"github.com/neighborly-app/backend/internal/cache"
	"github.com/neighborly-app/backend/internal/config"
	"github.com/neighborly-app/backend/internal/db"
	"github.com/neighborly-app/backend/internal/middleware"
	"github.com/neighborly-app/backend/internal/observ"
	"github.com/neighborly-app/backend/internal/repository/postgres"
	"github.com/neighborly-app/backend/internal/service"
	"github.com/neighborly-app/backend/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is a local-dev convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no deadline; requests get their own contexts later.
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	// Redis is optional: no REDIS_URL means searches go straight to the
	// store. A nil cache is a valid no-op everywhere it is used.
	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisCache(context.Background(), cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisCache.Close()
		logger.Info("redis cache enabled")
	}

	// Media storage is optional too; uploads return 503 when disabled.
	var media *storage.MediaStorage
	if cfg.Media.Endpoint != "" {
		media, err = storage.NewMediaStorage(cfg.Media)
		if err != nil {
			return fmt.Errorf("connect to media storage: %w", err)
		}
		logger.Info("media storage enabled", zap.String("bucket", cfg.Media.Bucket))
	}

	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	buildingRepo := postgres.NewBuildingStore(pool)
	membershipRepo := postgres.NewMembershipStore(pool)
	channelRepo := postgres.NewChannelStore(pool)
	messageRepo := postgres.NewMessageStore(pool)
	readStateRepo := postgres.NewReadStateStore(pool)

	userSvc := service.NewUserService(userRepo, logger)
	buildingSvc := service.NewBuildingService(buildingRepo, channelRepo, cache.NewBuildingCache(redisCache), logger)
	membershipSvc := service.NewMembershipService(userRepo, buildingRepo, membershipRepo, logger)
	messageSvc := service.NewMessageService(channelRepo, messageRepo, logger)
	readStateSvc := service.NewReadStateService(channelRepo, readStateRepo, logger)

	authHandler := api.NewAuthHandler(userRepo, cfg.JWTSecret, logger)
	userHandler := api.NewUserHandler(userSvc, logger)
	buildingHandler := api.NewBuildingHandler(buildingSvc, membershipSvc, logger)
	messageHandler := api.NewMessageHandler(messageSvc, logger)
	readStateHandler := api.NewReadStateHandler(readStateSvc, logger)
	mediaHandler := api.NewMediaHandler(media, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Public: health for load balancers, auth because callers have no token
	// yet. These endpoints are what produce one.
	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})
	srv.POST("/v1/auth/register", authHandler.Register)
	srv.POST("/v1/auth/login", authHandler.Login)

	v1 := srv.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	v1.GET("/users/:id", userHandler.Get) // ":id" may be the literal "me"
	v1.PATCH("/users/me", userHandler.Update)
	v1.POST("/users/batch", userHandler.Batch)

	v1.GET("/buildings", buildingHandler.Search)
	v1.GET("/buildings/:id", buildingHandler.Get)
	v1.POST("/buildings/:id/join", buildingHandler.Join)
	v1.GET("/buildings/:id/channels", buildingHandler.ListChannels)

	v1.GET("/channels/:id/messages", messageHandler.List)
	v1.POST("/channels/:id/messages", messageHandler.Create)
	v1.GET("/channels/:id/read-state", readStateHandler.Get)
	v1.PUT("/channels/:id/read-state", readStateHandler.Update)

	v1.POST("/media", mediaHandler.Upload)

	logger.Info("starting neighborly backend",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	return srv.Run(":" + cfg.Port)
}
