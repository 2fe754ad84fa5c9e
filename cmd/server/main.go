// Package main runs the poll and voting HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BethelHills/Alx-Polly/config"
	"github.com/BethelHills/Alx-Polly/internal/audit"
	"github.com/BethelHills/Alx-Polly/internal/auth"
	"github.com/BethelHills/Alx-Polly/internal/health"
	"github.com/BethelHills/Alx-Polly/internal/middleware"
	"github.com/BethelHills/Alx-Polly/internal/polls"
	"github.com/BethelHills/Alx-Polly/internal/votes"
	"github.com/BethelHills/Alx-Polly/pkg/database"
	"github.com/BethelHills/Alx-Polly/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("redis disabled", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Audit trail: best-effort side channel, injected into handlers.
	auditRepo := audit.NewRepository(pool)
	auditRecorder := audit.NewRecorder(auditRepo, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, auditRecorder, logger)

	// Polls
	pollRepo := polls.NewRepository(pool)
	pollHandler := polls.NewHandler(pollRepo, auditRecorder, logger)

	// Votes
	voteRepo := votes.NewRepository(pool)
	voteHandler := votes.NewHandler(voteRepo, pollRepo, auditRecorder, logger)

	// Health
	var healthHandler *health.Handler
	if rdb != nil {
		healthHandler = health.NewHandler(pool, rdb.Client, logger)
	} else {
		healthHandler = health.NewHandler(pool, nil, logger)
	}

	var rateLimit gin.HandlerFunc
	if rdb != nil {
		rateLimit = middleware.RateLimit(rdb.Client, cfg.RateLimit.PerMinute, logger)
	} else {
		rateLimit = middleware.RateLimit(nil, 0, logger)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", healthHandler.Check)

	// Auth (public)
	authGroup := router.Group("/auth")
	authGroup.Use(middleware.BodyLimit(), rateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Poll reads (public)
	router.GET("/polls", pollHandler.List)
	router.GET("/polls/:id", pollHandler.Get)
	router.GET("/polls/:id/results", pollHandler.Results)
	router.GET("/polls/:id/vote", pollHandler.Results)

	// Mutations (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService), middleware.BodyLimit(), rateLimit)
	{
		api.GET("/auth/me", authHandler.Me)
		api.POST("/polls", pollHandler.Create)
		api.POST("/polls/:id/close", pollHandler.Close)
		api.DELETE("/polls/:id", pollHandler.Delete)
		api.POST("/polls/:id/vote", voteHandler.Submit)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	// Let in-flight audit writes land before the pool closes.
	auditRecorder.Wait()
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
