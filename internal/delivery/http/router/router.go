// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"blitzshop/internal/delivery/http/middleware"
	"blitzshop/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	ProductHandler *handler.ProductHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	CouponHandler  *handler.CouponHandler
	InvoiceHandler *handler.InvoiceHandler
	ReviewHandler  *handler.ReviewHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	couponHandler  *handler.CouponHandler
	invoiceHandler *handler.InvoiceHandler
	reviewHandler  *handler.ReviewHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		productHandler: params.ProductHandler,
		cartHandler:    params.CartHandler,
		orderHandler:   params.OrderHandler,
		couponHandler:  params.CouponHandler,
		invoiceHandler: params.InvoiceHandler,
		reviewHandler:  params.ReviewHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.Refresh)
	}

	// Public catalog routes
	e.GET("/products", r.productHandler.ListProducts)
	e.GET("/products/:id", r.productHandler.GetProduct)
	e.GET("/products/:id/reviews", r.reviewHandler.ListProductReviews)

	// Routes that require authentication
	userGroup := e.Group("")
	userGroup.Use(r.authMiddleware.Authenticate) // Apply JWT authentication middleware
	{
		userGroup.GET("/user/profile", r.userHandler.GetProfile)
		userGroup.PUT("/user/profile", r.userHandler.UpdateProfile)
		userGroup.PUT("/user/password", r.userHandler.ChangePassword)

		userGroup.GET("/cart", r.cartHandler.GetCart)
		userGroup.DELETE("/cart", r.cartHandler.ClearCart)
		userGroup.POST("/cart/items", r.cartHandler.AddItem)
		userGroup.PUT("/cart/items/:id", r.cartHandler.UpdateItem)
		userGroup.DELETE("/cart/items/:id", r.cartHandler.RemoveItem)

		userGroup.POST("/coupons/validate", r.couponHandler.ValidateCoupon)
		userGroup.POST("/checkout", r.orderHandler.Checkout)

		userGroup.GET("/orders", r.orderHandler.ListMyOrders)
		userGroup.GET("/orders/:id", r.orderHandler.GetOrder)
		userGroup.POST("/orders/:id/cancel", r.orderHandler.CancelOrder)
		userGroup.POST("/orders/:id/payment-intent", r.orderHandler.CreatePaymentIntent)
		userGroup.POST("/orders/:id/confirm-payment", r.orderHandler.ConfirmPayment)
		userGroup.GET("/orders/:id/invoice", r.invoiceHandler.GetInvoiceByOrder)

		userGroup.GET("/invoices", r.invoiceHandler.ListMyInvoices)
		userGroup.GET("/invoices/:id", r.invoiceHandler.GetInvoice)

		userGroup.POST("/products/:id/reviews", r.reviewHandler.CreateReview)
		userGroup.PUT("/reviews/:id", r.reviewHandler.UpdateReview)
		userGroup.DELETE("/reviews/:id", r.reviewHandler.DeleteReview)
	}

	// Admin routes that require authentication and "admin" role
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)         // First, check if logged in
	adminGroup.Use(r.authMiddleware.RequireRole("admin")) // Then, check for the role
	{
		adminGroup.GET("/products", r.productHandler.AdminListProducts)
		adminGroup.POST("/products", r.productHandler.CreateProduct)
		adminGroup.PUT("/products/:id", r.productHandler.UpdateProduct)
		adminGroup.POST("/products/:id/stock", r.productHandler.AdjustStock)

		adminGroup.GET("/coupons", r.couponHandler.AdminListCoupons)
		adminGroup.POST("/coupons", r.couponHandler.AdminCreateCoupon)
		adminGroup.GET("/coupons/:id", r.couponHandler.AdminGetCoupon)
		adminGroup.PUT("/coupons/:id", r.couponHandler.AdminUpdateCoupon)

		adminGroup.GET("/orders", r.orderHandler.AdminListOrders)
		adminGroup.PUT("/orders/:id/status", r.orderHandler.AdminUpdateStatus)
	}
}
