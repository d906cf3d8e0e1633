package provider

import (
	"time"

	"github.com/hatstore-next/internal/cache"
	"github.com/hatstore-next/internal/config"
	"github.com/hatstore-next/internal/logger"
	"github.com/hatstore-next/internal/models"
	"github.com/hatstore-next/internal/queue"
	"github.com/hatstore-next/internal/repository"
	"github.com/hatstore-next/internal/service"
	"github.com/hatstore-next/internal/session"
)

// Container 依赖注入容器
type Container struct {
	Config       *config.Config
	QueueClient  *queue.Client
	SessionStore session.Store

	// Repositories
	AdminRepo    repository.AdminRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	AddressRepo  repository.ShippingAddressRepository
	OrderRepo    repository.OrderRepository

	// Services
	AuthService          *service.AuthService
	UserAuthService      *service.UserAuthService
	EmailService         *service.EmailService
	CategoryService      *service.CategoryService
	ProductService       *service.ProductService
	ProductImportService *service.ProductImportService
	CartService          *service.CartService
	OrderService         *service.OrderService
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
		Config:       cfg,
		QueueClient:  queueClient,
		SessionStore: session.NewStore(time.Duration(cfg.Session.TTLHours) * time.Hour),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.AddressRepo = repository.NewShippingAddressRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email, &c.Config.Store)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.ProductImportService = service.NewProductImportService(c.ProductRepo, c.CategoryService)
	c.CartService = service.NewCartService(c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.AddressRepo, c.QueueClient)
}
