package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sangkips/cactus-admin-api/internal/config"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/handler"
	"github.com/sangkips/cactus-admin-api/internal/presentation/http/middleware"
	"github.com/sangkips/cactus-admin-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Order        *handler.OrderHandler
	Customer     *handler.CustomerHandler
	DeliveryNote *handler.DeliveryNoteHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
	Log        zerolog.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// X-Forwarded-For is believed only from configured proxies, so the
	// per-client limits key on the real peer.
	if err := router.SetTrustedProxies(deps.Cfg.App.TrustedProxies); err != nil {
		deps.Log.Error().Err(err).Strs("trusted_proxies", deps.Cfg.App.TrustedProxies).Msg("invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Logo and fonts referenced by rendered documents
	if deps.Cfg.Document.LogoPath != "" && deps.Cfg.Document.LogoFile != "" {
		router.StaticFile(deps.Cfg.Document.LogoPath, deps.Cfg.Document.LogoFile)
	}
	router.Static("/fonts", deps.Cfg.Document.FontDir)

	// Per-client rate limiters; login gets its own, stricter budget
	rateLimiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: requestsPerSecond(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	loginLimiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: requestsPerSecond(deps.Cfg.RateLimit.LoginRequests, deps.Cfg.RateLimit.LoginDuration),
		BurstSize:         deps.Cfg.RateLimit.LoginRequests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h, loginLimiter)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, false))
		registerProtectedRoutes(protected, h)

		// Documents open in a browser tab, so the token may come in the query
		documents := v1.Group("")
		documents.Use(middleware.AuthMiddleware(deps.JWTManager, true))
		documents.Use(rateLimiter.Middleware())
		registerDeliveryNoteRoutes(documents, h)
	}

	return router
}

func requestsPerSecond(requests, seconds int) float64 {
	if seconds <= 0 {
		return float64(requests)
	}
	return float64(requests) / float64(seconds)
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, loginLimiter *middleware.IPRateLimiter) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), h.Auth.Login)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/auth/me", h.Auth.Me)

	// Orders
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/statuses", h.Order.Statuses)
		orders.GET("/:id", h.Order.Get)
		orders.PUT("/:id/status", h.Order.UpdateStatus)
	}

	// Customers
	protected.GET("/customers", h.Customer.List)

	// Printer
	protected.GET("/printer/status", h.DeliveryNote.PrinterStatus)
}

func registerDeliveryNoteRoutes(documents *gin.RouterGroup, h *Handlers) {
	lieferschein := documents.Group("/orders/:id/lieferschein")
	{
		lieferschein.GET("", h.DeliveryNote.Download)
		lieferschein.GET("/preview", h.DeliveryNote.Preview)
		lieferschein.POST("/print", h.DeliveryNote.Print)
	}
}
