package router

import (
	"fmt"
	"strings"

	"github.com/yuntuike/yanxuan/internal/config"
	apihandlers "github.com/yuntuike/yanxuan/internal/http/handlers/api"
	"github.com/yuntuike/yanxuan/internal/logger"
	"github.com/yuntuike/yanxuan/internal/provider"
	"github.com/yuntuike/yanxuan/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := apihandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ytk"
	}
	loginRule := ratelimit.Rule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
	}
	apiRule := ratelimit.Rule{
		Prefix:        fmt.Sprintf("%s:rate:api", redisPrefix),
		WindowSeconds: cfg.Security.APIRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.APIRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的图片）
	r.Static("/uploads", "./uploads")

	// API 路由组
	apiV1 := r.Group("/api/v1")
	apiV1.Use(RateLimitMiddleware(c.RateLimiter, apiRule, KeyByIP))
	{
		// 公开接口
		apiV1.GET("/captcha", handler.Captcha)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/login", RateLimitMiddleware(c.RateLimiter, loginRule, KeyByIPAndJSONField("phone")), handler.Login)
			auth.POST("/wechat-login", RateLimitMiddleware(c.RateLimiter, loginRule, KeyByIP), handler.WechatLogin)
			auth.POST("/refresh", handler.RefreshToken)
		}

		// 支付回调（微信服务端调用，走验签而非登录态）
		apiV1.POST("/payments/callback/wechat", handler.WechatPayCallback)

		// 需登录接口
		authorized := apiV1.Group("")
		authorized.Use(JWTAuthMiddleware(c.AuthService), AuthzMiddleware(c.AuthzService))
		{
			// 个人信息
			authorized.GET("/users/me", handler.Me)
			authorized.PUT("/users/me", handler.UpdateMe)
			authorized.PUT("/users/me/password", handler.ChangePassword)
			authorized.GET("/users/me/binding-info", handler.BindingInfo)
			authorized.POST("/auth/logout", handler.Logout)

			// 用户关系
			authorized.POST("/relationships", handler.CreateRelationship)
			authorized.GET("/relationships", handler.ListRelationships)
			authorized.GET("/relationships/statistics", handler.RelationshipStatistics)
			authorized.GET("/relationships/:id", handler.GetRelationship)
			authorized.PUT("/relationships/:id/status", handler.UpdateRelationshipStatus)

			// 商品
			authorized.GET("/products", handler.ListProducts)
			authorized.POST("/products", handler.CreateProduct)
			authorized.GET("/products/:id", handler.GetProduct)
			authorized.PUT("/products/:id", handler.UpdateProduct)
			authorized.DELETE("/products/:id", handler.DeleteProduct)
			authorized.POST("/products/:id/stock", handler.AdjustStock)

			// 订单
			authorized.POST("/orders", handler.CreateOrder)
			authorized.GET("/orders", handler.ListOrders)
			authorized.GET("/orders/statistics", handler.OrderStatistics)
			authorized.GET("/orders/:id", handler.GetOrder)
			authorized.PUT("/orders/:id/status", handler.UpdateOrderStatus)
			authorized.POST("/orders/:id/pay", handler.CreateOrderPayment)

			// 样品
			authorized.POST("/samples", handler.CreateSample)
			authorized.GET("/samples", handler.ListSamples)
			authorized.GET("/samples/statistics", handler.SampleStatistics)
			authorized.GET("/samples/:id", handler.GetSample)
			authorized.PUT("/samples/:id/status", handler.UpdateSampleStatus)
			authorized.POST("/samples/:id/review", handler.SubmitSampleReview)

			// 货盘
			authorized.POST("/collections", handler.CreateCollection)
			authorized.GET("/collections", handler.SearchCollections)
			authorized.GET("/collections/:id", handler.GetCollection)
			authorized.PUT("/collections/:id", handler.UpdateCollection)
			authorized.DELETE("/collections/:id", handler.DeleteCollection)
			authorized.GET("/collections/:id/items", handler.ListCollectionItems)
			authorized.POST("/collections/:id/items", handler.AddCollectionItem)
			authorized.DELETE("/collections/:id/items/:item_id", handler.RemoveCollectionItem)
			authorized.POST("/collections/:id/share", handler.ShareCollection)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
