package app

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brightgive/server/internal/module/campaign"
	"github.com/brightgive/server/internal/module/donation"
	"github.com/brightgive/server/internal/module/payment"
	"github.com/brightgive/server/internal/module/payment/provider"
	"github.com/brightgive/server/internal/module/receipt"
	"github.com/brightgive/server/internal/shared/cache"
	"github.com/brightgive/server/internal/shared/config"
	"github.com/brightgive/server/internal/shared/database"
	"github.com/brightgive/server/internal/shared/logger"
	"github.com/brightgive/server/internal/shared/metrics"
	"github.com/brightgive/server/internal/shared/middleware"
)

// App wires the modules together and owns their shared resources.
type App struct {
	config  *config.Config
	db      *gorm.DB
	redis   redis.UniversalClient
	router  *gin.Engine
	logger  *zap.Logger
	metrics *metrics.Metrics

	campaignHandler *campaign.Handler
	donationHandler *donation.Handler
	paymentHandler  *payment.Handler
	webhookHandler  *payment.WebhookHandler
	receiptHandler  *receipt.Handler
}

// New creates the application: connects the database, Redis and payment
// gateways, builds every module, and assembles the router.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	app := &App{
		config:  cfg,
		logger:  log,
		metrics: metrics.New("brightgive"),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrate(
		&campaign.Campaign{},
		&donation.Donation{},
		&payment.Payment{},
		&payment.WebhookEvent{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	app.db = db

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	app.redis = redisClient

	if err := app.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.router = app.setupRouter()
	return app, nil
}

// initModules builds the module graph. Payments come first because both
// donations and webhooks depend on them; donations register as a payment
// status listener last so every dependency already exists.
func (a *App) initModules() error {
	registry := payment.NewProviderRegistry()
	if a.config.Stripe.APIKey != "" {
		registry.Register(provider.NewStripeProvider(&provider.StripeConfig{
			APIKey:        a.config.Stripe.APIKey,
			WebhookSecret: a.config.Stripe.WebhookSecret,
		}))
	}
	if a.config.PayPal.ClientID != "" {
		pp, err := provider.NewPayPalProvider(&provider.PayPalConfig{
			ClientID:      a.config.PayPal.ClientID,
			Secret:        a.config.PayPal.Secret,
			WebhookSecret: a.config.PayPal.WebhookSecret,
			IsProd:        a.config.PayPal.IsProd,
		})
		if err != nil {
			return fmt.Errorf("init paypal provider: %w", err)
		}
		registry.Register(pp)
	}

	paymentRepo := payment.NewRepository(a.db)
	paymentService := payment.NewService(paymentRepo, registry, a.metrics, a.logger)

	donationRepo := donation.NewRepository(a.db)
	campaignRepo := campaign.NewRepository(a.db)
	campaignService := campaign.NewService(campaignRepo, donationRepo, a.redis, a.metrics, a.logger)

	store, err := receipt.NewS3Store(&a.config.Storage)
	if err != nil {
		return fmt.Errorf("init receipt store: %w", err)
	}
	receiptService := receipt.NewService(store, a.logger)

	donationService := donation.NewService(
		donationRepo,
		campaignService,
		paymentService,
		receiptService,
		&a.config.Donation,
		a.metrics,
		a.logger,
	)
	paymentService.RegisterListener(donationService)

	a.campaignHandler = campaign.NewHandler(campaignService)
	a.donationHandler = donation.NewHandler(donationService)
	a.paymentHandler = payment.NewHandler(paymentService)
	a.webhookHandler = payment.NewWebhookHandler(paymentService, a.logger)
	a.receiptHandler = receipt.NewHandler(receiptService, donationService)
	return nil
}

// setupRouter configures the Gin router and registers all module routes.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.Metrics(a.metrics))

	corsConfig := cors.DefaultConfig()
	if len(a.config.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = a.config.Server.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	protected := r.Group("/api/v1")
	protected.Use(middleware.Auth(a.config.Auth.JWTSecret, a.config.Auth.Issuer))

	// Webhooks authenticate with gateway signatures, not JWTs.
	webhooks := r.Group("/webhooks")

	a.campaignHandler.RegisterRoutes(v1)
	a.donationHandler.RegisterRoutes(v1)
	a.paymentHandler.RegisterRoutes(v1)
	a.webhookHandler.RegisterRoutes(webhooks)

	a.campaignHandler.RegisterProtectedRoutes(protected)
	a.donationHandler.RegisterProtectedRoutes(protected)
	a.paymentHandler.RegisterProtectedRoutes(protected)
	a.receiptHandler.RegisterProtectedRoutes(protected)

	return r
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases the application's resources.
func (a *App) Stop() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.redis != nil {
		_ = cache.Close(a.redis)
	}
	if a.db != nil {
		_ = database.Close(a.db)
	}
}
