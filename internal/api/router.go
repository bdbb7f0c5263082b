package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/agencyworks/project-system/docs"
	"github.com/agencyworks/project-system/internal/api/handler"
	"github.com/agencyworks/project-system/internal/api/middleware"
	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/core/ports"
	"github.com/agencyworks/project-system/internal/core/service"
	mongostore "github.com/agencyworks/project-system/internal/infrastructure/db/mongo"
	"github.com/agencyworks/project-system/internal/pkg/config"
)

// NewRouter builds the Echo instance with all routes registered. rdb may be
// nil when the deployment runs without Redis; it is only used by the
// readiness probe (the locker is injected separately).
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	locker ports.EntityLocker,
	notifier ports.Notifier,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("projects"))

	// --- Repositories ---
	roleRepo := mongostore.NewRoleRepository(db)
	userRepo := mongostore.NewUserRepository(db)
	projectRepo := mongostore.NewProjectRepository(db)
	reviewRepo := mongostore.NewReviewRepository(db)
	ledgerRepo := mongostore.NewLedgerRepository(db)

	// --- Services ---
	clock := service.SystemClock()
	authService := service.NewAuthService(userRepo, roleRepo, clock, cfg.JWTSecret, cfg.TokenTTL, log)
	roleService := service.NewRoleService(roleRepo, userRepo, clock, log)
	userService := service.NewUserService(userRepo, roleRepo, clock, log)
	projectService := service.NewProjectService(projectRepo, reviewRepo, locker, clock, log)
	reviewService := service.NewReviewService(reviewRepo, projectRepo, ledgerRepo, locker, clock, notifier, log)
	ledgerService := service.NewLedgerService(ledgerRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	roleHandler := handler.NewRoleHandler(roleService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)

	// --- Health probes and operational surfaces (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Public auth routes ---
	e.POST("/v1/auth/login", authHandler.Login)
	e.POST("/v1/auth/setup", authHandler.Setup)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(authService))

	v1.GET("/auth/me", authHandler.Me)

	v1.POST("/roles", roleHandler.Create)
	v1.PATCH("/roles/:id", roleHandler.Update)
	v1.DELETE("/roles/:id", roleHandler.Delete)
	v1.GET("/roles", roleHandler.List)

	v1.POST("/users", userHandler.Create)
	v1.PUT("/users/:id/status", userHandler.SetStatus)
	v1.POST("/users/:id/sync-role", userHandler.SyncRole)
	v1.GET("/users", userHandler.List)

	v1.POST("/projects", projectHandler.Create, middleware.Permission(domain.PermCreateProjects))
	v1.GET("/projects", projectHandler.List)
	v1.GET("/projects/:id", projectHandler.Get)
	v1.PUT("/projects/:id/status", projectHandler.Transition, middleware.Permission(domain.PermEditProjects))
	v1.DELETE("/projects/:id", projectHandler.Delete, middleware.Permission(domain.PermDeleteProjects))
	v1.POST("/projects/:id/comments", projectHandler.AddComment)
	v1.GET("/projects/:id/comments", projectHandler.ListComments)

	v1.POST("/reviews", reviewHandler.Submit)
	v1.GET("/reviews", reviewHandler.List)
	v1.POST("/reviews/:id/approve", reviewHandler.Approve, middleware.Permission(domain.PermApproveProjects))
	v1.POST("/reviews/:id/reject", reviewHandler.Reject, middleware.Permission(domain.PermApproveProjects))

	v1.GET("/ledger", ledgerHandler.List)
	v1.DELETE("/ledger/:id", ledgerHandler.Remove)

	return e
}
