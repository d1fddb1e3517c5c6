// Package router sets up the HTTP routing for the application.
package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/groupledger/backend/internal/integration/entrypoint/controller"
	"github.com/groupledger/backend/internal/integration/entrypoint/dto"
	"github.com/groupledger/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                 *gin.Engine
	healthController       *controller.HealthController
	authController         *controller.AuthController
	userController         *controller.UserController
	groupController        *controller.GroupController
	expenseController      *controller.ExpenseController
	balanceController      *controller.BalanceController
	categoryController     *controller.CategoryController
	exchangeRateController *controller.ExchangeRateController
	metricsHandler         http.Handler
	loginRateLimiter       *middleware.RateLimiter
	authMiddleware         *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
// Nil controllers leave their routes unregistered.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	userController *controller.UserController,
	groupController *controller.GroupController,
	expenseController *controller.ExpenseController,
	balanceController *controller.BalanceController,
	categoryController *controller.CategoryController,
	exchangeRateController *controller.ExchangeRateController,
	metricsHandler http.Handler,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:       healthController,
		authController:         authController,
		userController:         userController,
		groupController:        groupController,
		expenseController:      expenseController,
		balanceController:      balanceController,
		categoryController:     categoryController,
		exchangeRateController: exchangeRateController,
		metricsHandler:         metricsHandler,
		loginRateLimiter:       loginRateLimiter,
		authMiddleware:         authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	switch environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidations(v); err != nil {
			slog.Error("Failed to register request validations", "error", err)
		}
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery(), middleware.RequestLogger(slog.Default()))

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	if r.authController != nil && r.loginRateLimiter != nil {
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
		}
	}

	if r.authMiddleware == nil {
		return
	}

	protected := v1.Group("")
	protected.Use(r.authMiddleware.Authenticate())

	if r.userController != nil {
		users := protected.Group("/users/me")
		{
			users.GET("", r.userController.Me)
			users.PATCH("/preferences", r.userController.UpdatePreferences)
		}
	}

	if r.categoryController != nil {
		categories := protected.Group("/categories")
		{
			categories.GET("", r.categoryController.List)
			categories.POST("", r.categoryController.Create)
		}
	}

	if r.groupController != nil {
		groups := protected.Group("/groups")
		{
			groups.POST("", r.groupController.Create)
			groups.GET("", r.groupController.List)
			groups.GET("/:id", r.groupController.Get)
			groups.POST("/:id/members", r.groupController.AddMember)
			groups.GET("/:id/categories", r.groupController.ListCategories)
			groups.POST("/:id/categories", r.groupController.CreateCategory)

			if r.expenseController != nil {
				groups.POST("/:id/expenses", r.expenseController.Create)
				groups.GET("/:id/expenses", r.expenseController.List)
				groups.DELETE("/:id/expenses/:expenseId", r.expenseController.Delete)
			}

			if r.balanceController != nil {
				groups.GET("/:id/balances", r.balanceController.Get)
			}
		}
	}

	if r.expenseController != nil {
		protected.POST("/expenses/personal", r.expenseController.CreatePersonal)
	}

	if r.exchangeRateController != nil {
		rates := protected.Group("/exchange-rates")
		{
			rates.GET("", r.exchangeRateController.Get)
			rates.PUT("", r.exchangeRateController.Record)
		}
	}
}
