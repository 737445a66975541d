// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/ventilation-store/internal/interfaces/http/handlers"
	"github.com/your-org/ventilation-store/internal/interfaces/http/middleware"
	"github.com/your-org/ventilation-store/internal/pkg/auth"
)

// Handlers bundles the HTTP handlers mounted under /api/v1
type Handlers struct {
	Products  *handlers.ProductHandler
	Cart      *handlers.CartHandler
	Checkout  *handlers.CheckoutHandler
	Orders    *handlers.OrderHandler
	Reviews   *handlers.ReviewHandler
	Profile   *handlers.ProfileHandler
	Analytics *handlers.AnalyticsHandler
}

// SetupRoutes mounts every route group
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	SetupProductRoutes(rg, h)
	SetupCartRoutes(rg, h)
	SetupOrderRoutes(rg, h, jwtManager)
	SetupAccountRoutes(rg, h, jwtManager)
	SetupAdminRoutes(rg, h, jwtManager)
}

// SetupProductRoutes sets up the public catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		products.GET("", h.Products.GetProducts)
		products.GET("/:id", h.Products.GetProduct)
		products.GET("/:id/reviews", h.Reviews.GetProductReviews)
	}

	rg.GET("/categories", h.Products.GetCategories)
}

// SetupCartRoutes sets up the session cart routes. Guests and signed-in
// users share them; the cart is keyed by session only.
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.GET("/count", h.Cart.GetCartCount)
		cart.POST("/items", h.Cart.AddToCart)
		cart.PUT("/items/:id", h.Cart.UpdateCartItem)
		cart.DELETE("/items/:id", h.Cart.RemoveFromCart)
		cart.DELETE("", h.Cart.ClearCart)
	}
}

// SetupOrderRoutes sets up checkout and customer order routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	checkout := rg.Group("/checkout")
	{
		checkout.GET("/payment-methods", h.Checkout.GetPaymentMethods)
		checkout.GET("/summary", h.Checkout.GetSummary)
		checkout.POST("", middleware.AuthMiddleware(jwtManager), h.Checkout.PlaceOrder)
	}

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(jwtManager))
	{
		orders.GET("", h.Orders.GetOrders)
		orders.GET("/:id", h.Orders.GetOrder)
		orders.PUT("/:id/cancel", h.Orders.CancelOrder)
		orders.GET("/:id/receipt", h.Orders.DownloadReceipt)
	}
}

// SetupAccountRoutes sets up profile and review routes for signed-in customers
func SetupAccountRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	profile := rg.Group("/profile")
	profile.Use(middleware.AuthMiddleware(jwtManager))
	{
		profile.GET("", h.Profile.GetProfile)
		profile.PUT("", h.Profile.UpdateProfile)
	}

	reviews := rg.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(jwtManager))
	{
		reviews.GET("/mine", h.Reviews.GetMyReviews)
		reviews.GET("/pending", h.Reviews.GetPendingReviews)
		reviews.POST("", h.Reviews.CreateReview)
		reviews.PUT("/:id", h.Reviews.UpdateReview)
		reviews.DELETE("/:id", h.Reviews.DeleteReview)
	}
}

// SetupAdminRoutes sets up admin related routes
func SetupAdminRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager))
	admin.Use(middleware.AdminMiddleware())
	{
		products := admin.Group("/products")
		{
			products.GET("", h.Products.GetProducts)
			products.GET("/:id", h.Products.GetProduct)
			products.POST("", h.Products.AdminCreateProduct)
			products.PUT("/:id", h.Products.AdminUpdateProduct)
			products.DELETE("/:id", h.Products.AdminDeleteProduct)
			products.GET("/:id/movements", h.Products.AdminGetStockMovements)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", h.Orders.AdminGetOrders)
			orders.GET("/:id", h.Orders.AdminGetOrder)
			orders.PUT("/:id/status", h.Orders.AdminUpdateOrderStatus)
		}

		customers := admin.Group("/customers")
		{
			customers.GET("", h.Profile.AdminGetCustomers)
			customers.PUT("/:id", h.Profile.AdminUpdateCustomer)
		}

		admin.GET("/dashboard", h.Analytics.GetDashboard)
	}
}
