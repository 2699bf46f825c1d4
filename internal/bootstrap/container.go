package bootstrap

import (
	"context"
	"log"
	"os"
	"strings"

	"raw-ai-be/internal/config"
	"raw-ai-be/internal/controller"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/internal/pkg/mailer"
	"raw-ai-be/internal/repository/contract"
	"raw-ai-be/internal/repository/memory"
	"raw-ai-be/internal/repository/rediscache"
	"raw-ai-be/internal/repository/unitofwork"
	"raw-ai-be/internal/service"
	"raw-ai-be/pkg/detector"
	"raw-ai-be/pkg/events"
	"raw-ai-be/pkg/gateway/razorpay"
	"raw-ai-be/pkg/llm"
	"raw-ai-be/pkg/llm/factory"

	pktNats "raw-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DetectorController controller.IDetectorController
	HumanizeController controller.IHumanizeController
	PaymentController  controller.IPaymentController
	UserController     controller.IUserController

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	CacheSyncService service.ICacheSyncService // nil unless NATS is up and the cache is per-instance

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	c.Logger = sysLogger
	c.closers = append(c.closers, func() { _ = sysLogger.Sync(); _ = auditLogger.Sync() })

	// 2. Infrastructure
	// Redis, falling back to an in-process cache
	var usageCache contract.UsageCache
	sharedCache := false
	if rdb := connectRedis(cfg.App.RedisURL); rdb != nil {
		usageCache = rediscache.NewUsageCache(rdb, cfg.Usage.CacheTTL, sysLogger)
		sharedCache = true
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		log.Printf("[INFO] Usage cache: REDIS")
	} else {
		usageCache = memory.NewUsageCache(cfg.Usage.CacheTTL)
		log.Printf("[INFO] Usage cache: IN-MEMORY")
	}

	// NATS (optional). The interface stays nil when not connected.
	var eventPublisher events.Publisher
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
			natsSub = nil
		} else {
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	// Mail (optional)
	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.App.ClientURL,
		)
	}

	// 3. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 4. Providers
	var llmProvider llm.LLMProvider
	provider, err := factory.NewLLMProvider(factory.Config{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		GatewayURL:    cfg.Ai.GatewayURL,
		GatewayAPIKey: cfg.Ai.GatewayAPIKey,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		Timeout:       cfg.Ai.Timeout,
	})
	if err != nil {
		log.Printf("[WARN] LLM provider unavailable, /api/humanize will fail: %v", err)
	} else {
		llmProvider = provider
		log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, provider.DefaultModel())
	}

	gateway := razorpay.NewClient(cfg.Payment.KeyId, cfg.Payment.KeySecret, cfg.Payment.BaseURL, cfg.Payment.Timeout)
	if !gateway.Configured() {
		log.Printf("[WARN] Payment gateway keys missing, checkout endpoints will fail")
	}

	d := detector.New()

	// 5. Services
	usageService := service.NewUsageService(uowFactory, usageCache, eventPublisher, sysLogger)
	detectorService := service.NewDetectorService(d, usageService, sysLogger, cfg.Usage.Strict)
	humanizeService := service.NewHumanizeService(llmProvider, d, usageService, sysLogger, cfg.Usage.Strict)

	publisherService := service.NewPublisherService(pubSub, cfg.Payment.RetryTopic)
	paymentService := service.NewPaymentService(
		uowFactory,
		gateway,
		cfg.Payment.KeySecret,
		publisherService,
		eventPublisher,
		emailService,
		sysLogger,
		auditLogger,
	)
	profileService := service.NewProfileService(uowFactory, paymentService, sysLogger)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Payment.RetryTopic,
		uowFactory,
		paymentService,
		publisherService,
		sysLogger,
		cfg.Payment.RetryAttempts,
		cfg.Payment.RetryBackoff,
	)

	if natsSub != nil && !sharedCache {
		c.CacheSyncService = service.NewCacheSyncService(natsSub, usageCache, sysLogger, instanceId())
	}

	// 6. Controllers
	c.DetectorController = controller.NewDetectorController(detectorService, cfg.Keys.JWTSecret)
	c.HumanizeController = controller.NewHumanizeController(humanizeService, cfg.Keys.JWTSecret)
	c.PaymentController = controller.NewPaymentController(paymentService, cfg.Keys.JWTSecret, cfg.Keys.AdminToken)
	c.UserController = controller.NewUserController(profileService, usageService, cfg.Keys.JWTSecret)

	if cfg.Keys.JWTSecret == "" {
		log.Printf("[WARN] JWT_SECRET is empty, authenticated requests will fail with a configuration error")
	}

	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func instanceId() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "node"
	}
	// Consumer names may not contain dots.
	return strings.ReplaceAll(host, ".", "-") + "-" + uuid.NewString()[:8]
}
