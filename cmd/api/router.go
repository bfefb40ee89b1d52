package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"publisher-backoffice/internal/shared/middleware"
	"publisher-backoffice/pkg/container"

	"github.com/gin-gonic/gin"
)

// newEngine builds a bare engine that takes the client IP from
// X-Forwarded-For only when the peer is one of trustedProxies.
func newEngine(trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	return router, nil
}

func SetupRouter(c *container.Container) (*gin.Engine, error) {
	router, err := newEngine(c.Config.App.TrustedProxies)
	if err != nil {
		return nil, err
	}

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)

		// Everything below requires a live session.
		protected := v1.Group("", middleware.AuthMiddleware(c.UserService, c.Config.Auth.CookieName))
		setupAuthorRoutes(protected, c)
		setupBookRoutes(protected, c)
		setupClientRoutes(protected, c)
		setupSaleRoutes(protected, c)
		setupDashboardRoutes(protected, c)
		setupAdminRoutes(protected, c)
	}

	return router, nil
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	loginLimiter := middleware.NewPerMinuteLimiter(c.Config.RateLimit.LoginPerMinute)
	registerLimiter := middleware.NewPerMinuteLimiter(c.Config.RateLimit.RegisterPerMinute)
	requireSession := middleware.AuthMiddleware(c.UserService, c.Config.Auth.CookieName)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimit(loginLimiter), c.UserHandler.Login)
		auth.POST("/register", middleware.RateLimit(registerLimiter), c.UserHandler.Register)
		auth.POST("/logout", requireSession, c.UserHandler.Logout)
		auth.GET("/me", requireSession, c.UserHandler.Me)
	}
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(rg *gin.RouterGroup, c *container.Container) {
	authors := rg.Group("/authors")
	{
		authors.POST("", c.AuthorHandler.Create)
		authors.GET("", c.AuthorHandler.List)
		authors.GET("/all", c.AuthorHandler.ListAll)
		authors.GET("/:id", c.AuthorHandler.GetByID)
		authors.PUT("/:id", c.AuthorHandler.Update)
		authors.DELETE("/:id", c.AuthorHandler.Delete)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(rg *gin.RouterGroup, c *container.Container) {
	books := rg.Group("/books")
	{
		books.POST("", c.BookHandler.Create)
		books.GET("", c.BookHandler.List)
		books.GET("/:id", c.BookHandler.GetByID)
		books.PUT("/:id", c.BookHandler.Update)
		books.DELETE("/:id", c.BookHandler.Delete)
		books.PUT("/:id/authors", c.BookHandler.SetAuthors)
		books.POST("/:id/authors", c.BookHandler.AddAuthors)
	}
}

// ========================================
// CLIENT ROUTES
// ========================================
func setupClientRoutes(rg *gin.RouterGroup, c *container.Container) {
	clients := rg.Group("/clients")
	{
		clients.POST("", c.ClientHandler.Create)
		clients.GET("", c.ClientHandler.List)
		clients.GET("/all", c.ClientHandler.ListAll)
		clients.GET("/:id", c.ClientHandler.GetByID)
		clients.PUT("/:id", c.ClientHandler.Update)
		clients.DELETE("/:id", c.ClientHandler.Delete)
	}
}

// ========================================
// SALE ROUTES
// ========================================
func setupSaleRoutes(rg *gin.RouterGroup, c *container.Container) {
	sales := rg.Group("/sales")
	{
		sales.POST("", c.SaleHandler.Create)
		sales.GET("", c.SaleHandler.List)
		sales.GET("/export", c.SaleHandler.Export)
		sales.GET("/:id", c.SaleHandler.GetByID)
		sales.GET("/:id/items", c.SaleHandler.ListItems)
		sales.DELETE("/:id", c.SaleHandler.Delete)
	}
}

// ========================================
// DASHBOARD ROUTES
// ========================================
func setupDashboardRoutes(rg *gin.RouterGroup, c *container.Container) {
	rg.GET("/dashboard", c.DashboardHandler.Summary)
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(rg *gin.RouterGroup, c *container.Container) {
	admin := rg.Group("/admin", middleware.AdminMiddleware())
	{
		admin.GET("/users", c.UserHandler.ListUsers)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		var pool interface{}
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = "error: " + err.Error()
			} else if stats, err := appCtx.DB.Stats(); err == nil {
				pool = stats
			}
		}

		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Redis.Ping(ctx); err != nil {
				redisStatus = "error: " + err.Error()
			}
		}

		if dbStatus != "ok" || redisStatus != "ok" {
			health["status"] = "degraded"
		}
		health["services"] = gin.H{
			"database": dbStatus,
			"pool":     pool,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
