package app

import (
	"database/sql"

	"go-leave/internal/approvaltoken"
	"go-leave/internal/auth"
	"go-leave/internal/bootstrap"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	tokenRepo := approvaltoken.NewRepository(gormDB)

	// tanpa broker, email ke karyawan dikirim langsung
	var outboxRepo kafka.OutboxRepository
	if cfg.Kafka.Broker != "" {
		outboxRepo = kafka.NewOutboxRepository(db)
	}

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbac.NewDefaultRepository(), enforcer)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, cfg.JWT)
	tokenService := approvaltoken.NewService(tokenRepo)
	notifier := notification.NewService(
		notification.NewMailer(cfg.SMTP),
		outboxRepo,
		notification.Config{
			ApprovalBaseURL: cfg.Approval.BaseURL,
			TokenTTL:        cfg.Approval.TokenTTL,
		},
	)
	leaveService := leave.NewService(
		gormDB,
		leaveRepo,
		tokenService,
		authRepo,
		auth.NewBcryptVerifier(),
		notifier,
		rdb,
		leave.Config{
			TokenTTL: cfg.Approval.TokenTTL,
			Audit:    bootstrap.NewStdoutAuditLogger(),
		},
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction())
	leaveHandler := leave.NewHandler(leaveService)
	rbacHandler := rbac.NewHandler(rbacService)

	authMiddleware := middleware.AuthMiddleware(cfg.JWT.Secret)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMiddleware)
		leave.RegisterRoutes(api, leaveHandler, rbacService, authMiddleware, rdb)
		rbac.RegisterRoutes(api, rbacHandler, authMiddleware)
	}

	return nil
}
