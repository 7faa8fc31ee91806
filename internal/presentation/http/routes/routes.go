package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/translab/translab-api/internal/config"
	"github.com/translab/translab-api/internal/domain/entity"
	domainRepo "github.com/translab/translab-api/internal/domain/repository"
	"github.com/translab/translab-api/internal/presentation/http/handler"
	"github.com/translab/translab-api/internal/presentation/http/middleware"
	"github.com/translab/translab-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Branch   *handler.BranchHandler
	Order    *handler.OrderHandler
	Payment  *handler.PaymentHandler
	Receipt  *handler.ReceiptHandler
	Customer *handler.CustomerHandler
	User     *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zap.SugaredLogger
	BranchRepo      domainRepo.BranchRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		registerAccountRoutes(protected, h)
		registerCenterRoutes(protected, h)
		registerStaffRoutes(protected, h)

		// Branch-scoped routes: everything below requires the X-Branch-ID
		// header and membership in that branch.
		scoped := protected.Group("")
		scoped.Use(middleware.BranchMiddleware(deps.BranchRepo))

		// Per-branch rate limiter
		rateLimiter := middleware.NewBranchRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		scoped.Use(rateLimiter.Middleware())

		registerOrderRoutes(scoped, h, deps)
		registerReceiptRoutes(scoped, h)
		registerCustomerRoutes(scoped, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerAccountRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/me", h.Auth.Me)
	protected.PUT("/me/password", h.Auth.ChangePassword)
}

func registerCenterRoutes(protected *gin.RouterGroup, h *Handlers) {
	centers := protected.Group("/centers")
	centers.Use(middleware.RequireRole(entity.RoleOwner))
	{
		centers.POST("", h.Branch.CreateCenter)
		centers.GET("/:id/branches", h.Branch.ListByCenter)
	}

	branches := protected.Group("/branches")
	branches.Use(middleware.RequireRole(entity.RoleOwner))
	{
		branches.POST("", h.Branch.CreateBranch)
		branches.GET("/:id", h.Branch.Get)
		branches.PUT("/:id", h.Branch.Update)
	}
}

func registerStaffRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(entity.RoleOwner, entity.RoleAdmin))
	{
		users.POST("", h.User.CreateStaff)
		users.GET("/:id", h.User.Get)
		users.POST("/:id/branches/:branch_id", h.User.AddToBranch)
	}
}

func registerOrderRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := scoped.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.POST("", h.Order.Create)
		orders.GET("/due", h.Order.ListDue)
		orders.GET("/:id", h.Order.Get)
		orders.GET("/:id/history", h.Order.History)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/assign", h.Order.Assign)
		orders.POST("/:id/complete", h.Order.Complete)
		orders.POST("/:id/cancel", h.Order.Cancel)

		// Payment recording uses idempotency middleware to prevent
		// double credits on client retries.
		orders.POST("/:id/payments", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}), h.Payment.RecordPayment)
		orders.POST("/:id/extra-fee", h.Payment.AddExtraFee)
		orders.POST("/:id/reset-payment", middleware.RequireRole(entity.RoleOwner), h.Payment.ResetPayment)

		orders.GET("/:id/receipts", h.Receipt.ListByOrder)
		orders.POST("/:id/receipts", h.Receipt.Upload)
	}
}

func registerReceiptRoutes(scoped *gin.RouterGroup, h *Handlers) {
	receipts := scoped.Group("/receipts")
	{
		receipts.POST("/:id/verify", h.Receipt.Verify)
		receipts.POST("/:id/reject", h.Receipt.Reject)
	}
}

func registerCustomerRoutes(scoped *gin.RouterGroup, h *Handlers) {
	customers := scoped.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
	}
}
