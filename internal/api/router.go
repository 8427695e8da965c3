package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/resihub/community-system/internal/api/handler"
	"github.com/resihub/community-system/internal/api/middleware"
	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/ports"
	"github.com/resihub/community-system/internal/core/service"
	communitymongo "github.com/resihub/community-system/internal/infrastructure/db/mongo"
)

// Deps carries the externally constructed collaborators the router wires
// into the services. Repositories are built here from the database handle.
type Deps struct {
	DB        *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Images    ports.ImageStore
	Events    ports.EventSink
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("community"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Repositories ---
	userRepo := communitymongo.NewUserRepository(deps.DB)
	complaintRepo := communitymongo.NewComplaintRepository(deps.DB)
	assignmentRepo := communitymongo.NewAssignmentRepository(deps.DB)
	announcementRepo := communitymongo.NewAnnouncementRepository(deps.DB)
	feeRepo := communitymongo.NewFeeRepository(deps.DB)
	activityRepo := communitymongo.NewActivityRepository(deps.DB)

	// --- Services ---
	authService := service.NewAuthService(userRepo, deps.JWTSecret, 24*time.Hour)
	userService := service.NewUserService(userRepo, activityRepo, deps.Logger)
	complaintService := service.NewComplaintService(
		complaintRepo, userRepo, assignmentRepo, activityRepo,
		deps.Images, deps.Events, deps.Logger,
	)
	assignmentService := service.NewAssignmentService(assignmentRepo, userRepo, deps.Logger)
	announcementService := service.NewAnnouncementService(
		announcementRepo, activityRepo, deps.Images, deps.Events, deps.Logger,
	)
	feeService := service.NewFeeService(feeRepo, userRepo, activityRepo, deps.Logger)
	dashboardService := service.NewDashboardService(complaintRepo, userRepo, deps.Logger)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	complaintHandler := handler.NewComplaintHandler(complaintService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, complaintService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)
	feeHandler := handler.NewFeeHandler(feeService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated routes ---
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	staffOrAdmin := middleware.RequireRole(domain.RoleStaff, domain.RoleAdmin)

	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))

	complaints := v1.Group("/complaints")
	complaints.POST("", complaintHandler.Create)
	complaints.GET("", complaintHandler.List)
	complaints.GET("/:id", complaintHandler.Get)
	complaints.PATCH("/:id", complaintHandler.UpdateStatus, staffOrAdmin)
	complaints.POST("/:id/notes", complaintHandler.AddNote, staffOrAdmin)
	complaints.POST("/:id/feedback", complaintHandler.SubmitFeedback)

	v1.GET("/assignments", assignmentHandler.List, staffOrAdmin)
	v1.POST("/assignments", assignmentHandler.Create, adminOnly)

	users := v1.Group("/users")
	users.POST("", userHandler.Create, adminOnly)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	announcements := v1.Group("/announcements")
	announcements.POST("", announcementHandler.Create, adminOnly)
	announcements.GET("", announcementHandler.List)
	announcements.GET("/:id", announcementHandler.Get)
	announcements.PATCH("/:id", announcementHandler.Update, adminOnly)
	announcements.DELETE("/:id", announcementHandler.Delete, adminOnly)

	fees := v1.Group("/monthly-fees", adminOnly)
	fees.POST("", feeHandler.Create)
	fees.GET("", feeHandler.List)
	fees.GET("/:id", feeHandler.Get)
	fees.PATCH("/:id", feeHandler.Update)

	v1.GET("/dashboard", dashboardHandler.Stats)

	return e
}
