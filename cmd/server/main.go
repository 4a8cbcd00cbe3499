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

	"solo_adventure/internal/config"
	"solo_adventure/internal/handler"
	"solo_adventure/internal/middleware"
	"solo_adventure/internal/repository"
	"solo_adventure/internal/service"
	"solo_adventure/pkg/logger"
	"solo_adventure/pkg/timestamp"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level)
	timestamp.SetLogger(appLogger)

	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	repos := repository.NewRepositories(dbPool, rdb, appLogger)
	services := service.NewServices(repos, cfg, appLogger)

	authMiddleware := middleware.NewAuthMiddleware(services.Auth, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	handlers := handler.NewHandlers(services, cfg, appLogger)

	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg, appLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Check)

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("/auth")
		{
			public.POST("/register", rateLimitMiddleware.Limit(), handlers.Auth.Register)
			public.POST("/login", rateLimitMiddleware.Limit(), handlers.Auth.Login)
			public.POST("/refresh", handlers.Auth.RefreshToken)
			public.POST("/logout", handlers.Auth.Logout)
		}

		// The build catalog is static and needs no account.
		v1.GET("/catalog", handlers.Catalog.Get)

		protected := v1.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			protected.GET("/dice/:die/roll", handlers.Dice.Roll)
			protected.POST("/roll-scores", handlers.Character.RollScores)

			characters := protected.Group("/characters")
			{
				characters.POST("", handlers.Character.Create)
				characters.GET("", handlers.Character.List)
				characters.GET("/:id", handlers.Character.GetByID)
				characters.PUT("/:id", handlers.Character.Update)
				characters.DELETE("/:id", handlers.Character.Delete)

				campaign := characters.Group("/:id/campaign")
				{
					campaign.GET("", handlers.Play.Enter)
					campaign.POST("/messages", rateLimitMiddleware.GenerationLimit(), handlers.Play.Send)
					campaign.POST("/roll", handlers.Play.Roll)
					campaign.POST("/retry", rateLimitMiddleware.GenerationLimit(), handlers.Play.Retry)
				}
			}
		}
	}

	ws := router.Group("/ws")
	ws.Use(authMiddleware.RequireAuth())
	{
		ws.GET("/campaigns/:id", handlers.Events.HandleCampaignLog)
	}

	return router
}
