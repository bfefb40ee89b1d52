package container

import (
	"context"
	"fmt"
	"time"

	"publisher-backoffice/internal/config"
	infraCache "publisher-backoffice/internal/infrastructure/cache"
	"publisher-backoffice/internal/infrastructure/database"
	"publisher-backoffice/pkg/cache"
	"publisher-backoffice/pkg/jwt"
	"publisher-backoffice/pkg/logger"

	// User domain
	"publisher-backoffice/internal/domains/user"
	userHandler "publisher-backoffice/internal/domains/user/handler"
	userRepo "publisher-backoffice/internal/domains/user/repository"
	userService "publisher-backoffice/internal/domains/user/service"

	// Catalog domains
	authorHandler "publisher-backoffice/internal/domains/author/handler"
	authorRepo "publisher-backoffice/internal/domains/author/repository"
	authorService "publisher-backoffice/internal/domains/author/service"
	bookHandler "publisher-backoffice/internal/domains/book/handler"
	bookRepo "publisher-backoffice/internal/domains/book/repository"
	bookService "publisher-backoffice/internal/domains/book/service"

	// Sales domains
	clientHandler "publisher-backoffice/internal/domains/client/handler"
	clientRepo "publisher-backoffice/internal/domains/client/repository"
	clientService "publisher-backoffice/internal/domains/client/service"
	dashboardHandler "publisher-backoffice/internal/domains/dashboard/handler"
	dashboardRepo "publisher-backoffice/internal/domains/dashboard/repository"
	dashboardService "publisher-backoffice/internal/domains/dashboard/service"
	saleHandler "publisher-backoffice/internal/domains/sale/handler"
	saleRepo "publisher-backoffice/internal/domains/sale/repository"
	saleService "publisher-backoffice/internal/domains/sale/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the API process.
// Order of construction: config, infrastructure, repositories, services,
// handlers.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisCache
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// Repositories
	UserRepo      user.Repository
	SessionStore  user.SessionStore
	AuthorRepo    authorRepo.RepositoryInterface
	BookRepo      bookRepo.RepositoryInterface
	ClientRepo    clientRepo.RepositoryInterface
	SaleRepo      saleRepo.RepositoryInterface
	DashboardRepo dashboardRepo.RepositoryInterface

	// Services
	UserService      user.Service
	AuthorService    authorService.ServiceInterface
	BookService      bookService.ServiceInterface
	ClientService    clientService.ServiceInterface
	SaleService      saleService.ServiceInterface
	DashboardService dashboardService.ServiceInterface

	// Handlers
	UserHandler      *userHandler.UserHandler
	AuthorHandler    *authorHandler.AuthorHandler
	BookHandler      *bookHandler.BookHandler
	ClientHandler    *clientHandler.ClientHandler
	SaleHandler      *saleHandler.SaleHandler
	DashboardHandler *dashboardHandler.DashboardHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

func NewContainer() (*Container, error) {
	logger.Info("initializing container", nil)

	c := &Container{}

	// STEP 1: configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("config loaded", map[string]interface{}{"environment": cfg.App.Environment})

	// STEP 2: database, schema
	if err := c.initDatabase(); err != nil {
		return nil, err
	}

	// STEP 3: redis (session revocation only, not fatal)
	c.initRedis()

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.AccessExpiry, cfg.JWT.RememberExpiry)

	// STEP 4-6: layers
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	// STEP 7: seed accounts on an empty users table
	if cfg.Auth.SeedEnabled {
		if err := c.seedUsers(); err != nil {
			c.Cleanup()
			return nil, fmt.Errorf("failed to seed users: %w", err)
		}
	}

	logger.Info("container initialized", nil)
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase() error {
	dbCfg := c.Config.Database

	if dbCfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := database.Migrate(ctx, dbCfg); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	db := database.NewPostgresDB(dbCfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	return nil
}

func (c *Container) initRedis() {
	rc := infraCache.NewRedisCache(infraCache.RedisConfig{
		Addr:     c.Config.Redis.Addr,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
		Prefix:   c.Config.Redis.Prefix,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, session revocation degraded", map[string]interface{}{
			"addr":  c.Config.Redis.Addr,
			"error": err.Error(),
		})
	}

	c.Redis = rc
	c.Cache = rc
}

func (c *Container) initRepositories() {
	c.UserRepo = userRepo.NewPostgresRepository(c.DB)
	c.SessionStore = userRepo.NewSessionStore(c.Cache)
	c.AuthorRepo = authorRepo.NewPostgresRepository(c.DB)
	c.BookRepo = bookRepo.NewPostgresRepository(c.DB)
	c.ClientRepo = clientRepo.NewPostgresRepository(c.DB)
	c.SaleRepo = saleRepo.NewPostgresRepository(c.DB)
	c.DashboardRepo = dashboardRepo.NewPostgresRepository(c.DB)
}

func (c *Container) initServices() {
	c.UserService = userService.NewAuthService(
		c.UserRepo,
		c.SessionStore,
		c.JWTManager,
		userService.NewPasswordHasher(c.Config.Auth.BcryptCost),
	)
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.BookService = bookService.NewBookService(c.BookRepo)
	c.ClientService = clientService.NewClientService(c.ClientRepo)
	c.SaleService = saleService.NewSaleService(c.SaleRepo)
	c.DashboardService = dashboardService.NewDashboardService(c.DashboardRepo)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService, userHandler.CookieConfig{
		Name:   c.Config.Auth.CookieName,
		Secure: c.Config.Auth.SecureCookie,
	})
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.ClientHandler = clientHandler.NewClientHandler(c.ClientService)
	c.SaleHandler = saleHandler.NewSaleHandler(c.SaleService)
	c.DashboardHandler = dashboardHandler.NewDashboardHandler(c.DashboardService)
}

func (c *Container) seedUsers() error {
	seeds := make([]user.SeedUser, len(c.Config.Auth.SeedUsers))
	for i, s := range c.Config.Auth.SeedUsers {
		seeds[i] = user.SeedUser{
			Username: s.Username,
			Email:    s.Email,
			Password: s.Password,
			IsAdmin:  s.IsAdmin,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := c.UserService.EnsureInitialUsers(ctx, seeds)
	if err != nil {
		return err
	}
	if created > 0 {
		logger.Info("initial users created", map[string]interface{}{"count": created})
	}
	return nil
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases the pool and the redis client. Called on shutdown.
func (c *Container) Cleanup() {
	logger.Info("cleaning up container resources", nil)

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err, nil)
		}
	}
}
