// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProductHandler *handler.ProductHandler
	OrderHandler   *handler.OrderHandler
	UserHandler    *handler.UserHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	productHandler *handler.ProductHandler
	orderHandler   *handler.OrderHandler
	userHandler    *handler.UserHandler
	adminHandler   *handler.AdminHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		productHandler: params.ProductHandler,
		orderHandler:   params.OrderHandler,
		userHandler:    params.UserHandler,
		adminHandler:   params.AdminHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	authenticate := echo.MiddlewareFunc(r.authMiddleware.Authenticate)
	optionalAuth := echo.MiddlewareFunc(r.authMiddleware.OptionalAuthenticate)
	adminOnly := r.authMiddleware.RequireRole(entity.RoleAdmin)

	// Auth routes. Profile self-service lives here as well, matching the
	// public API surface.
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.POST("/oauth", r.authHandler.OAuthToken)
		authGroup.GET("/google", r.authHandler.GoogleLogin)
		authGroup.GET("/google/callback", r.authHandler.GoogleCallback)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword)
		authGroup.PUT("/reset-password/:token", r.authHandler.ResetPassword)

		authGroup.GET("/me", r.userHandler.GetProfile, authenticate)
		authGroup.PUT("/profile", r.userHandler.UpdateProfile, authenticate)
		authGroup.PUT("/change-password", r.userHandler.ChangePassword, authenticate)
	}

	// Catalog reads are public; optional authentication unlocks admin-only
	// listing options such as includeInactive. Catalog writes are admin.
	productGroup := api.Group("/products")
	{
		productGroup.GET("", r.productHandler.List, optionalAuth)
		productGroup.GET("/categories", r.productHandler.Categories, optionalAuth)
		productGroup.GET("/:id", r.productHandler.Get, optionalAuth)

		productGroup.POST("/:id/reviews", r.productHandler.AddReview, authenticate)

		productGroup.POST("", r.productHandler.Create, authenticate, adminOnly)
		productGroup.PUT("/:id", r.productHandler.Update, authenticate, adminOnly)
		productGroup.DELETE("/:id", r.productHandler.Delete, authenticate, adminOnly)
		productGroup.POST("/:id/images", r.productHandler.UploadImage, authenticate, adminOnly)
	}

	// Order routes. Listing every order and driving status transitions is
	// reserved for administrators.
	orderGroup := api.Group("/orders")
	orderGroup.Use(authenticate)
	{
		orderGroup.POST("", r.orderHandler.Create)
		orderGroup.GET("/my-orders", r.orderHandler.ListMine)
		orderGroup.GET("/:id", r.orderHandler.Get)
		orderGroup.PUT("/:id/cancel", r.orderHandler.Cancel)

		orderGroup.GET("", r.orderHandler.List, adminOnly)
		orderGroup.PUT("/:id/status", r.orderHandler.UpdateStatus, adminOnly)
	}

	// User management routes require a session and the admin role.
	userGroup := api.Group("/users")
	userGroup.Use(authenticate, adminOnly)
	{
		userGroup.GET("", r.adminHandler.ListUsers)
		userGroup.GET("/:id", r.adminHandler.GetUser)
		userGroup.PUT("/:id", r.adminHandler.UpdateUser)
		userGroup.DELETE("/:id", r.adminHandler.DeleteUser)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(authenticate, adminOnly)
	{
		adminGroup.GET("/metrics", r.adminHandler.Dashboard)
	}
}
