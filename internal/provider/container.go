package provider

import (
	"context"

	"github.com/yuntuike/yanxuan/internal/authz"
	"github.com/yuntuike/yanxuan/internal/cache"
	"github.com/yuntuike/yanxuan/internal/config"
	"github.com/yuntuike/yanxuan/internal/logger"
	"github.com/yuntuike/yanxuan/internal/models"
	"github.com/yuntuike/yanxuan/internal/payment/wechatpay"
	"github.com/yuntuike/yanxuan/internal/queue"
	"github.com/yuntuike/yanxuan/internal/ratelimit"
	"github.com/yuntuike/yanxuan/internal/repository"
	"github.com/yuntuike/yanxuan/internal/service"
	"github.com/yuntuike/yanxuan/internal/wechat"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	RateLimiter ratelimit.Limiter

	// Repositories
	UserRepo         repository.UserRepository
	RelationshipRepo repository.RelationshipRepository
	ProductRepo      repository.ProductRepository
	OrderRepo        repository.OrderRepository
	SampleRepo       repository.SampleRepository
	CollectionRepo   repository.CollectionRepository
	PaymentRepo      repository.PaymentRepository

	// Services
	AuthzService        *authz.Service
	CaptchaService      *service.CaptchaService
	AuthService         *service.AuthService
	RelationshipService *service.RelationshipService
	ProductService      *service.ProductService
	OrderService        *service.OrderService
	SampleService       *service.SampleService
	CollectionService   *service.CollectionService
	NotificationService *service.NotificationService
	PaymentService      *service.PaymentService

	// 外部网关
	WechatClient  *wechat.Client
	WechatGateway *wechatpay.Gateway
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 限流器：Redis 可用时共享计数，否则退化为进程内滑动窗口
	if cache.Enabled() {
		c.RateLimiter = ratelimit.NewRedisLimiter(cache.Client())
	} else {
		c.RateLimiter = ratelimit.NewMemoryLimiter()
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.RelationshipRepo = repository.NewRelationshipRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.SampleRepo = repository.NewSampleRepository(db)
	c.CollectionRepo = repository.NewCollectionRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.WechatClient = wechat.NewClient(c.Config.Wechat)
	if c.Config.WechatPay.Enabled {
		gateway, err := wechatpay.NewGateway(context.Background(), c.Config.WechatPay)
		if err != nil {
			logger.Errorw("provider_init_wechatpay_failed", "error", err)
		} else {
			c.WechatGateway = gateway
		}
	}

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.WechatClient, c.CaptchaService)
	c.RelationshipService = service.NewRelationshipService(c.RelationshipRepo, c.UserRepo, c.OrderRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.UserRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.UserRepo, c.QueueClient, c.Config.Order.TimeoutMinutes)
	c.NotificationService = service.NewNotificationService(c.QueueClient)
	c.SampleService = service.NewSampleService(c.SampleRepo, c.ProductRepo, c.UserRepo, c.QueueClient, c.NotificationService, c.Config.Sample.ReturnDeadlineDays)
	c.CollectionService = service.NewCollectionService(c.CollectionRepo, c.ProductRepo)

	var gateway service.PaymentGateway
	if c.WechatGateway != nil {
		gateway = c.WechatGateway
	}
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.OrderRepo, c.UserRepo, c.OrderService, c.NotificationService, gateway)
}
