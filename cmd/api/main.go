package main

import (
	"context"
	"time"

	"hr-dashboard/internal/app"
	"hr-dashboard/internal/bootstrap"
	"hr-dashboard/internal/config"
	"hr-dashboard/internal/observability/tracing"
	"hr-dashboard/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	shutdownTracing, err := tracing.Init(context.Background(), logger, cfg.OTLPEndpoint, cfg.ServiceName, cfg.AppEnv)
	if err != nil {
		logger.Fatal("init tracing failed", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// build dependency + routes
	cleanup, err := app.BuildApp(r, cfg, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ServiceName:  cfg.ServiceName,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		shutdownTracing,
	)
}

func newLogger(cfg *config.Config) *zap.Logger {
	build := zap.NewDevelopment
	if cfg.IsProduction() {
		build = zap.NewProduction
	}
	logger, err := build()
	if err != nil {
		panic(err)
	}
	return logger.With(zap.String("service", cfg.ServiceName))
}
