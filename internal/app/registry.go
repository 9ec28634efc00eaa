package app

import (
	"database/sql"
	"time"

	"hr-dashboard/internal/auth"
	"hr-dashboard/internal/config"
	"hr-dashboard/internal/employee"
	"hr-dashboard/internal/leave"
	"hr-dashboard/internal/leavebalance"
	"hr-dashboard/internal/leavecalendar"
	"hr-dashboard/internal/messaging/kafka"
	"hr-dashboard/internal/middleware"
	"hr-dashboard/internal/rbac"
	"hr-dashboard/internal/rbac/infra"
	"hr-dashboard/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idempotencyTTL = 24 * time.Hour

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	calendarRepo := leavecalendar.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbac.NewDefaultRepository(), enforcer, logger)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo, cfg.JWTSecret, cfg.AccessTokenTTL, logger)
	balanceService := leavebalance.NewService(balanceRepo, logger)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, balanceService, counterRepo, outboxRepo, logger)
	calendarService := leavecalendar.NewService(calendarRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), logger)
	leaveHandler := leave.NewHandler(leaveService, rbacService, logger)
	balanceHandler := leavebalance.NewHandler(balanceService, logger)
	calendarHandler := leavecalendar.NewHandler(calendarService, logger)

	// --- Middleware ---
	authenticate := middleware.AuthMiddleware(cfg.JWTSecret)
	authn := []gin.HandlerFunc{
		authenticate,
		middleware.RateLimitByUser(5, 20),
		middleware.ResolveIdentity(authService),
	}
	idempotent := middleware.Idempotency(rdb, idempotencyTTL, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authenticate)
		leave.RegisterRoutes(api, leaveHandler, rbacService, idempotent, authn...)
		leavebalance.RegisterRoutes(api, balanceHandler, rbacService, authn...)
		leavecalendar.RegisterRoutes(api, calendarHandler, rbacService, authn...)
	}

	return nil
}
