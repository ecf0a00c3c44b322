package bootstrap

import (
	"context"
	"log"

	"parallax/internal/config"
	"parallax/internal/controller"
	"parallax/internal/pkg/logger"
	"parallax/internal/pkg/mailer"
	"parallax/internal/repository/contract"
	"parallax/internal/repository/implementation"
	"parallax/internal/repository/memory"
	"parallax/internal/repository/redisrepo"
	"parallax/internal/service"
	"parallax/internal/websocket"
	"parallax/pkg/fulfiller"
	"parallax/pkg/fulfiller/ambiguities"
	"parallax/pkg/fulfiller/completions"
	"parallax/pkg/fulfiller/doccontext"
	"parallax/pkg/fulfiller/emails"
	"parallax/pkg/fulfiller/mathjax"
	"parallax/pkg/llm/factory"
	"parallax/pkg/natsbus"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	FulfillmentController controller.IFulfillmentController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Job bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM provider for the slow fulfillers
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.OllamaModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.OllamaModel)

	registry := fulfiller.NewRegistry(
		mathjax.New(),
		doccontext.New(),
		completions.New(llmProvider),
		ambiguities.New(llmProvider),
		emails.New(llmProvider),
	)

	// 4. Session storage
	var sessionRepo contract.ISessionRepository
	if cfg.App.SessionStore == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionRepo = redisrepo.NewSessionRepository(rdb)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessionRepo = memory.NewSessionRepository()
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// 5. Optional infrastructure. The backend runs fine without either; the
	// audit log and the ops event stream simply go dark.
	var logRepo contract.IFulfillmentLogRepository
	if db != nil {
		logRepo = implementation.NewFulfillmentLogRepository(db)
	}

	var natsPub *natsbus.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = natsbus.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// 6. WebSocket hub for session observers
	wsHub := websocket.NewHub(sysLogger)

	// 7. Services
	publisherService := service.NewPublisherService(pubSub, service.FulfillJobsTopic)

	fulfillmentService := service.NewFulfillmentService(
		registry,
		sessionRepo,
		publisherService,
		logRepo,
		natsPub,
		emailService,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		service.FulfillJobsTopic,
		registry,
		fulfillmentService,
		logRepo,
		wsHub,
		cfg.Fulfill.JobTimeout,
		sysLogger,
	)

	// 8. Controllers
	return &Container{
		FulfillmentController: controller.NewFulfillmentController(fulfillmentService, wsHub),
		ConsumerService:       consumerService,
		WebSocketHub:          wsHub,
	}
}
