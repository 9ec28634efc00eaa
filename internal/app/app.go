package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"hr-dashboard/internal/config"
	"hr-dashboard/internal/middleware"
	"hr-dashboard/internal/observability/metrics"
	"hr-dashboard/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure, migrates the schema and mounts every
// route on router. The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, cfg.ConnectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if err := migrate(gormDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.ConnectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	cleanup := func() {
		_ = rdb.Close()
		_ = sqlDB.Close()
	}

	router.Use(middleware.ContextLogger(logger), metrics.GinMiddleware())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/readyz", readiness(sqlDB, rdb))

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb, logger); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}

func readiness(db *sql.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.String(http.StatusServiceUnavailable, "database not ready")
			return
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			c.String(http.StatusServiceUnavailable, "redis not ready")
			return
		}
		c.String(http.StatusOK, "ready")
	}
}
