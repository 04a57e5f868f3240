package app

import (
	"context"
	"net/http"
	"time"

	"go-leave/internal/middleware"
	"go-leave/internal/shared/config"
	"go-leave/internal/shared/connection"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure, migrates the schema and registers every
// route on router. The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.Database.MaxRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := Migrate(migrateCtx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.Database.MaxRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	cleanup := func() {
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}

	router.Use(middleware.ContextLogger(zap.L()))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := sqlDB.PingContext(ctx); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "database unavailable", nil)
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "redis unavailable", nil)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})

	// 2. Register Modules & Routes
	if err := registerModules(router, cfg, sqlDB, gormDB, redisClient); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}
