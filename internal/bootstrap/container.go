package bootstrap

import (
	"context"
	"log"

	"companion-chat-be/internal/config"
	"companion-chat-be/internal/constant"
	"companion-chat-be/internal/controller"
	"companion-chat-be/internal/middleware"
	"companion-chat-be/internal/pkg/logger"
	"companion-chat-be/internal/repository/implementation"
	"companion-chat-be/internal/service"
	"companion-chat-be/internal/session"
	"companion-chat-be/pkg/chatbot"
	"companion-chat-be/pkg/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	AuthController controller.IAuthController
	ChatController controller.IChatController

	IdentityResolver fiber.Handler
	Logger           logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())

	// Session storage: Redis when configured, in-process otherwise.
	var sessionStore session.Store
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionStore = session.NewRedisStore(rdb)
		log.Println("[INFO] Using Session Store: REDIS")
	} else {
		sessionStore = session.NewMemoryStore()
		log.Println("[INFO] Using Session Store: MEMORY")
	}

	cookieCodec := session.NewCookieCodec(cfg.App.SessionSecret)

	// External collaborators
	var provider identity.IClient
	if cfg.Identity.BaseURL != "" {
		provider = identity.NewClient(cfg.Identity.BaseURL, cfg.Identity.AnonKey, cfg.Identity.ServiceKey)
	} else {
		log.Println("[WARN] IDENTITY_PROVIDER_URL not set; auth flows will fail")
	}
	bot := chatbot.NewGeminiChatbot(cfg.Ai.GeminiAPIKey, cfg.Ai.GeminiModel, constant.CompanionSystemInstruction)

	// Repositories
	sessionRepo := implementation.NewChatSessionRepository(db)
	messageRepo := implementation.NewChatMessageRepository(db)

	// Services
	authService := service.NewAuthService(provider, sessionStore, sysLogger)
	historyService := service.NewHistoryService(sessionRepo, messageRepo)
	chatService := service.NewChatService(bot, historyService, sysLogger)

	return &Container{
		AuthController:   controller.NewAuthController(authService, cookieCodec, cfg.IsProduction()),
		ChatController:   controller.NewChatController(chatService, historyService),
		IdentityResolver: middleware.IdentityResolver(sessionStore, cookieCodec, authService),
		Logger:           sysLogger,
	}
}
