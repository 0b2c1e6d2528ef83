package router

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/dto"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/handlers"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/middleware"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Pinger - проверка доступности базы для /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth       *handlers.AuthHandler
	Categories *handlers.CategoryHandler
	Products   *handlers.ProductHandler
	Orders     *handlers.OrderHandler

	Tokens      service.TokenProvider
	AuthLimiter *middleware.IPRateLimiter // nil - без лимита
	DB          Pinger
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func Router(d Deps, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(log),
		middleware.Recovery(log),
		cors.New(corsConfig(d.CORSOrigins)),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Fail("Route not found.", nil))
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Sweet Management System API!"})
	})

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if d.DB != nil {
			if err := d.DB.Ping(ctx); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.AuthRequired(d.Tokens, log)
	v1 := r.Group("/v1")

	authGroup := v1.Group("/auth")
	if d.AuthLimiter != nil {
		authGroup.Use(middleware.RateLimit(d.AuthLimiter))
	}
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.GET("/verify",
		middleware.AuthRequired(d.Tokens, log, middleware.WithFailureData(dto.VerifyResponse{Valid: false})),
		d.Auth.Verify,
	)

	user := v1.Group("/user")
	{
		user.GET("/listCategories", d.Categories.List)
		user.GET("/categories/:id", d.Categories.Get)
		user.GET("/products", d.Products.List)
		user.GET("/products/:id", d.Products.Get)

		orders := user.Group("/orders", auth)
		orders.POST("", d.Orders.Create)
		orders.GET("", d.Orders.ListMine)
		orders.GET("/:id", d.Orders.GetMine)
	}

	admin := v1.Group("/admin", auth, middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/categories", d.Categories.List)
		admin.POST("/categories", d.Categories.Create)
		admin.PUT("/categories/:id", d.Categories.Update)
		admin.DELETE("/categories/:id", d.Categories.Delete)

		admin.POST("/products", d.Products.Create)
		admin.PUT("/products/:id", d.Products.Update)
		admin.DELETE("/products/:id", d.Products.Delete)

		admin.GET("/orders", d.Orders.ListAll)
		admin.GET("/orders/:id", d.Orders.Get)
		admin.PUT("/orders/:id/status", d.Orders.UpdateStatus)
	}

	return r
}
