// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/config"
	"github.com/your-org/ventilation-store/internal/domain/analytics"
	"github.com/your-org/ventilation-store/internal/domain/cart"
	"github.com/your-org/ventilation-store/internal/domain/checkout"
	"github.com/your-org/ventilation-store/internal/domain/inventory"
	"github.com/your-org/ventilation-store/internal/domain/order"
	"github.com/your-org/ventilation-store/internal/domain/product"
	"github.com/your-org/ventilation-store/internal/domain/profile"
	"github.com/your-org/ventilation-store/internal/domain/review"
	"github.com/your-org/ventilation-store/internal/infrastructure/database/postgres"
	"github.com/your-org/ventilation-store/internal/interfaces/http/handlers"
	"github.com/your-org/ventilation-store/internal/interfaces/http/middleware"
	"github.com/your-org/ventilation-store/internal/interfaces/http/routes"
	"github.com/your-org/ventilation-store/internal/pkg/auth"
	"github.com/your-org/ventilation-store/internal/pkg/pdf"
	"gorm.io/gorm"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	gin         *gin.Engine
	httpServer  *http.Server
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	startedAt   time.Time
}

// NewServer creates a new HTTP server with its middleware and routes mounted
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:      cfg,
		gin:         gin.New(),
		db:          db,
		redisClient: redisClient,
		log:         log,
		startedAt:   time.Now(),
	}

	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		log.WithError(err).Warn("invalid trusted proxies, trusting none")
		_ = s.gin.SetTrustedProxies(nil)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler exposes the router, for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.log.WithFields(logrus.Fields{
		"port":     s.config.Server.Port,
		"base_url": fmt.Sprintf("http://localhost:%s/api/v1", s.config.Server.Port),
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.log.Info("shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.log.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Recovery(s.log))
	s.gin.Use(middleware.Logger(s.log))
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.redisClient, s.log))
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxBodyBytes))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes wires services into handlers and mounts them
func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	productService := product.NewService(s.db)
	cartService := cart.NewService(cart.NewRedisStore(s.redisClient, s.config.Store.CartTTL), productService, s.log)
	orderService := order.NewService(s.db, s.log)
	profileService := profile.NewService(s.db, s.redisClient, s.config.Store.ProfileTTL, s.log)
	reviewService := review.NewService(s.db)
	checkoutService := checkout.NewService(s.db, cartService, s.log)
	analyticsService := analytics.NewService(productService, orderService, profileService)

	h := &routes.Handlers{
		Products:  handlers.NewProductHandler(productService, inventory.NewService(s.db), s.log),
		Cart:      handlers.NewCartHandler(cartService, s.log),
		Checkout:  handlers.NewCheckoutHandler(checkoutService, s.log),
		Orders:    handlers.NewOrderHandler(orderService, pdf.NewService(s.config), s.log),
		Reviews:   handlers.NewReviewHandler(reviewService, s.log),
		Profile:   handlers.NewProfileHandler(profileService, s.log),
		Analytics: handlers.NewAnalyticsHandler(analyticsService, s.log),
	}

	routes.SetupRoutes(s.gin.Group("/api/v1"), h, auth.NewJWTManager(s.config))

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"products": "/api/v1/products",
					"cart":     "/api/v1/cart",
					"checkout": "/api/v1/checkout",
					"orders":   "/api/v1/orders",
					"reviews":  "/api/v1/reviews",
					"profile":  "/api/v1/profile",
					"admin":    "/api/v1/admin",
				},
			})
		})
	}
}

// healthCheck reports unhealthy when the database or Redis cannot be reached
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := postgres.Health(ctx, s.db); err != nil {
		s.log.WithError(err).Error("database health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database ping failed",
		})
		return
	}

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		s.log.WithError(err).Error("redis health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "redis ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
