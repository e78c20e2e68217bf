package bootstrap

import (
	"context"
	"log"

	"ai-interview-be/internal/config"
	"ai-interview-be/internal/controller"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/pkg/mailer"
	"ai-interview-be/internal/pkg/serverutils"
	"ai-interview-be/internal/pkg/token"
	"ai-interview-be/internal/repository/memory"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/internal/service"
	"ai-interview-be/pkg/events"
	"ai-interview-be/pkg/llm"
	"ai-interview-be/pkg/llm/factory"
	"ai-interview-be/pkg/llm/mock"
	pktNats "ai-interview-be/pkg/nats"
	"ai-interview-be/pkg/replicate"
	"ai-interview-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	UserController    controller.IUserController
	OAuthController   controller.IOAuthController
	ChatController    controller.IChatController
	PromptController  controller.IPromptController
	MessageController controller.IMessageController
	ImageController   controller.IImageController
	AdminController   controller.IAdminController

	// Middleware shared by the route groups
	JwtMiddleware  fiber.Handler
	AdminOnly      fiber.Handler
	GeneralLimiter fiber.Handler

	// Background Services (Exposed for main.go to run)
	ActivityService service.IActivityService

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires every service. A nil db selects the in-memory repositories.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) *Container {
	c := &Container{Logger: sysLogger}

	// 1. Persistence
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		log.Println("[INFO] Using in-memory repositories")
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
	}

	// 2. Event Bus
	publisher, subscriber := c.newEventBus(cfg.App.NatsURL)

	// 3. Infrastructure
	tokens := token.NewManager(token.Config{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessExpiry:  cfg.Auth.AccessExpiry,
		RefreshExpiry: cfg.Auth.RefreshExpiry,
	})

	var emailService mailer.IEmailService = &mailer.NoopEmailService{Logger: sysLogger}
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.From(),
			cfg.App.ClientURL,
			sysLogger,
		)
	} else {
		log.Println("[WARN] SMTP_HOST not set, reset emails are only logged")
	}

	llmProvider := newLLMProvider(ctx, cfg.Ai)

	var objectStorage storage.ObjectStorage
	if cfg.Storage.Enabled() {
		s3Storage, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:        cfg.Storage.Bucket,
			Region:        cfg.Storage.Region,
			Endpoint:      cfg.Storage.Endpoint,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			log.Printf("[WARN] Failed to initialize S3 storage: %v", err)
		} else {
			objectStorage = s3Storage
		}
	}

	var imageGenerator service.ImageGenerator
	if cfg.Image.ReplicateToken != "" {
		replicateClient, err := replicate.NewClient(
			cfg.Image.ReplicateToken,
			cfg.Image.ReplicateModel,
			"",
			cfg.Image.PollInterval,
			cfg.Image.PollAttempts,
		)
		if err != nil {
			log.Printf("[WARN] Failed to initialize Replicate client: %v", err)
		} else {
			imageGenerator = replicateClient
		}
	}

	var googleVerifier service.GoogleIdentityVerifier
	if cfg.OAuth.GoogleClientID != "" {
		googleVerifier = service.NewGoogleIdentityVerifier(
			cfg.OAuth.GoogleClientID,
			cfg.OAuth.GoogleClientSecret,
			cfg.OAuth.GoogleRedirectURL,
		)
	}

	// 4. Services
	authService := service.NewAuthService(uowFactory, tokens, emailService, publisher, sysLogger, service.AuthOptions{
		BcryptCost:       cfg.Auth.BcryptCost,
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockTime:         cfg.Auth.LockTime,
		ResetTokenExpiry: cfg.Auth.ResetTokenExpiry,
		MaxRefreshTokens: cfg.Auth.MaxRefreshTokens,
	})
	oauthService := service.NewOAuthService(
		uowFactory,
		googleVerifier,
		memory.NewOAuthStateRepository(),
		tokens,
		cfg.Auth.MaxRefreshTokens,
		publisher,
		sysLogger,
	)
	userService := service.NewUserService(uowFactory, objectStorage, publisher, sysLogger)
	chatService := service.NewChatService(uowFactory, publisher, sysLogger)
	promptService := service.NewPromptService(uowFactory)
	messageService := service.NewMessageService(uowFactory, llmProvider, publisher, sysLogger, service.MessageOptions{
		ReplyEnabled:  cfg.Ai.ReplyEnabled,
		Timeout:       cfg.Ai.Timeout,
		HistoryWindow: cfg.Ai.HistoryWindow,
	})
	imageService := service.NewImageService(uowFactory, imageGenerator, objectStorage, sysLogger)
	adminService := service.NewAdminService(chatService, sysLogger)

	c.ActivityService = service.NewActivityService(subscriber, sysLogger)

	// 5. Middleware
	limiterStorage := c.newLimiterStorage(ctx, cfg.App.RedisURL)
	c.JwtMiddleware = serverutils.NewJwtMiddleware(tokens)
	c.AdminOnly = serverutils.RequireRole(string(entity.UserRoleAdmin))
	c.GeneralLimiter = serverutils.NewRateLimiter(serverutils.RateLimit{
		Name:   "general",
		Max:    cfg.RateLimit.GeneralMax,
		Window: cfg.RateLimit.GeneralWindow,
	}, limiterStorage)
	authLimiter := serverutils.NewRateLimiter(serverutils.RateLimit{
		Name:    "auth",
		Max:     cfg.RateLimit.AuthMax,
		Window:  cfg.RateLimit.AuthWindow,
		Message: "Too many authentication attempts, please try again later",
	}, limiterStorage)
	messageLimiter := serverutils.NewRateLimiter(serverutils.RateLimit{
		Name:      "chat",
		Max:       cfg.RateLimit.ChatMax,
		Window:    cfg.RateLimit.ChatWindow,
		KeyByUser: true,
		Message:   "Too many messages, please slow down",
	}, limiterStorage)

	// 6. Controllers
	cookie := controller.RefreshCookie{
		Name:   cfg.Auth.RefreshCookieName,
		Secure: cfg.App.IsProduction(),
	}
	c.AuthController = controller.NewAuthController(authService, userService, cookie, c.JwtMiddleware, authLimiter)
	c.UserController = controller.NewUserController(userService, cookie, c.JwtMiddleware)
	c.OAuthController = controller.NewOAuthController(oauthService, cookie, cfg.App.ClientURL, c.JwtMiddleware, sysLogger)
	c.ChatController = controller.NewChatController(chatService)
	c.PromptController = controller.NewPromptController(promptService, imageService)
	c.MessageController = controller.NewMessageController(messageService, messageLimiter)
	c.ImageController = controller.NewImageController(imageService)
	c.AdminController = controller.NewAdminController(adminService)

	return c
}

// newEventBus prefers NATS JetStream and falls back to the in-process bus.
func (c *Container) newEventBus(natsURL string) (events.Publisher, events.Subscriber) {
	if natsURL != "" {
		natsPub, err := pktNats.NewPublisher(natsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
		natsSub, err := pktNats.NewSubscriber(natsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		}
		if natsPub != nil && natsSub != nil {
			c.closers = append(c.closers, natsPub.Close, natsSub.Close)
			log.Printf("[INFO] Using NATS event bus (%s)", natsURL)
			return natsPub, natsSub
		}
		if natsPub != nil {
			natsPub.Close()
		}
		if natsSub != nil {
			natsSub.Close()
		}
	}

	bus := events.NewLocalBus()
	c.closers = append(c.closers, func() { _ = bus.Close() })
	log.Println("[INFO] Using in-process event bus")
	return bus, bus
}

// newLimiterStorage returns nil (process memory) unless Redis is reachable.
func (c *Container) newLimiterStorage(ctx context.Context, redisURL string) fiber.Storage {
	if redisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: redisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Rate limits stay in memory", err)
		_ = rdb.Close()
		return nil
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return serverutils.NewRedisStorage(rdb, "ratelimit:")
}

func newLLMProvider(ctx context.Context, cfg config.AIConfig) llm.LLMProvider {
	provider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider:      cfg.LLMProvider,
		Model:         cfg.LLMModel,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
	})
	if err != nil {
		log.Printf("[WARN] Failed to initialize LLM Provider %q: %v. Using mock replies", cfg.LLMProvider, err)
		return mock.NewMockProvider()
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.LLMProvider, cfg.LLMModel)
	return provider
}

// Close releases broker and cache connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
