package router

import (
	"fmt"
	"strings"

	"github.com/hatstore-next/internal/cache"
	"github.com/hatstore-next/internal/config"
	adminhandlers "github.com/hatstore-next/internal/http/handlers/admin"
	publichandlers "github.com/hatstore-next/internal/http/handlers/public"
	"github.com/hatstore-next/internal/logger"
	"github.com/hatstore-next/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "hs"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxAttempts,
		Message:       "too many checkout attempts",
	}

	registerMiddleware(r, cfg, log)

	api := r.Group("/api")
	{
		// 商品目录（公开）
		api.GET("/products", publicHandler.ListProducts)
		api.GET("/products/:slug", publicHandler.GetProduct)
		api.GET("/categories", publicHandler.ListCategories)
		api.GET("/categories/:slug", publicHandler.GetCategory)

		// 购物车与结算（会话态，登录可选）
		shop := api.Group("")
		shop.Use(SessionMiddleware(c.SessionStore, cfg.Session))
		shop.Use(OptionalUserJWTMiddleware(c.UserAuthService))
		{
			shop.GET("/cart", publicHandler.GetCart)
			shop.DELETE("/cart", publicHandler.ClearCart)
			shop.POST("/cart/items", publicHandler.AddCartItem)
			shop.PATCH("/cart/items/:product_id", publicHandler.UpdateCartItem)
			shop.DELETE("/cart/items/:product_id", publicHandler.RemoveCartItem)
			shop.POST("/orders/checkout",
				RateLimitMiddleware(redisClient, checkoutRule, KeyByIP),
				publicHandler.Checkout)
		}

		// 订单查询（创建后凭 ID 匿名可查）
		api.GET("/orders/:id", publicHandler.GetOrder)

		// 顾客账户
		users := api.Group("/users")
		{
			users.POST("/register", publicHandler.Register)
			users.POST("/login",
				RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")),
				publicHandler.Login)

			authed := users.Group("")
			authed.Use(UserJWTAuthMiddleware(c.UserAuthService))
			{
				authed.GET("/me", publicHandler.Me)
				authed.GET("/me/orders", publicHandler.ListMyOrders)
				authed.GET("/me/orders/:id", publicHandler.GetMyOrder)
			}
		}

		// 管理端
		admin := api.Group("/admin")
		{
			admin.POST("/login",
				RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP),
				adminHandler.Login)

			authorized := admin.Group("")
			authorized.Use(AdminJWTAuthMiddleware(c.AuthService))
			{
				authorized.GET("/products", adminHandler.ListProducts)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
				authorized.POST("/products/import", adminHandler.ImportProducts)

				authorized.GET("/categories", adminHandler.ListCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				authorized.GET("/orders", adminHandler.ListOrders)
				authorized.GET("/orders/:id", adminHandler.GetOrder)
				authorized.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

func registerMiddleware(r *gin.Engine, cfg *config.Config, log *zap.Logger) {
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
}
