package bootstrap

import (
	"context"
	"fmt"
	"log"

	"disease-predictor-be/internal/config"
	"disease-predictor-be/internal/controller"
	"disease-predictor-be/internal/pkg/logger"
	"disease-predictor-be/internal/pkg/serverutils"
	"disease-predictor-be/internal/repository/contract"
	"disease-predictor-be/internal/repository/implementation"
	"disease-predictor-be/internal/repository/memory"
	"disease-predictor-be/internal/repository/redisstore"
	"disease-predictor-be/internal/service"
	"disease-predictor-be/pkg/events"
	"disease-predictor-be/pkg/inference"

	pktNats "disease-predictor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PageController       controller.IPageController
	AuthController       controller.IAuthController
	PredictionController controller.IPredictionController

	// Used by server middleware
	SessionService service.ISessionService
	Logger         logger.ILogger

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []func() error
}

// Dependencies lets callers replace infrastructure, mainly in tests. Nil
// fields are built from the config.
type Dependencies struct {
	DB        *gorm.DB
	Logger    logger.ILogger
	Users     contract.UserRepository
	Sessions  contract.SessionRepository
	Predictor inference.Predictor
	Publisher events.Publisher
}

func NewContainer(ctx context.Context, cfg *config.Config, deps Dependencies) (*Container, error) {
	c := &Container{}

	// 1. Logger
	sysLogger := deps.Logger
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}
	c.Logger = sysLogger

	// 2. Account store
	users := deps.Users
	if users == nil {
		switch cfg.Database.Driver {
		case "postgres":
			if deps.DB == nil {
				return nil, fmt.Errorf("store driver postgres needs a database connection")
			}
			users = implementation.NewUserRepository(deps.DB)
		case "memory":
			users = memory.NewUserRepository()
		default:
			return nil, fmt.Errorf("unknown store driver %q", cfg.Database.Driver)
		}
	}

	// 3. Session store
	sessions := deps.Sessions
	if sessions == nil {
		switch cfg.Session.Driver {
		case "redis":
			opt, err := redis.ParseURL(cfg.Session.RedisURL)
			if err != nil {
				log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
				opt = &redis.Options{Addr: cfg.Session.RedisURL}
			}
			rdb := redis.NewClient(opt)
			if err := rdb.Ping(ctx).Err(); err != nil {
				rdb.Close()
				return nil, fmt.Errorf("failed to connect to Redis: %w", err)
			}
			c.closers = append(c.closers, rdb.Close)
			sessions = redisstore.NewSessionRepository(rdb, cfg.Session.TTL)
		case "memory":
			sessions = memory.NewSessionRepository(cfg.Session.TTL)
		default:
			return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
		}
	}

	// 4. Event bus
	publisher := deps.Publisher
	if publisher == nil {
		switch cfg.Events.Driver {
		case "local":
			pubSub := gochannel.NewGoChannel(
				gochannel.Config{},
				watermill.NewStdLogger(false, false),
			)
			c.closers = append(c.closers, pubSub.Close)
			publisher = events.NewLocalPublisher(pubSub)
			c.ConsumerService = service.NewConsumerService(pubSub, events.LocalTopic, sysLogger)
		case "nats":
			natsPub, err := pktNats.NewPublisher(ctx, cfg.Events.NatsURL)
			if err != nil {
				sysLogger.Warn("Bootstrap", "NATS unavailable, events disabled", map[string]interface{}{"error": err.Error()})
				publisher = events.NopPublisher{}
				break
			}
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
			publisher = natsPub
		case "none", "":
			publisher = events.NopPublisher{}
		default:
			return nil, fmt.Errorf("unknown events driver %q", cfg.Events.Driver)
		}
	}

	// 5. Inference
	predictor := deps.Predictor
	if predictor == nil {
		predictor = inference.NewHTTPClient(cfg.Inference.URL, cfg.Inference.Timeout, cfg.Inference.MaxAttempts)
	}

	// 6. Services
	authService := service.NewAuthService(users, publisher, sysLogger)
	sessionService := service.NewSessionService(sessions, cfg.Session.Secret, cfg.Session.TTL, publisher, sysLogger)
	userService := service.NewUserService(users)
	predictionService := service.NewPredictionService(users, predictor, publisher, sysLogger)

	if cfg.App.TrustBodyUsername {
		sysLogger.Warn("Bootstrap", "POST /predict trusts the username in the request body and is not session-guarded", nil)
	}

	// 7. Controllers
	cookie := serverutils.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
		TTL:    cfg.Session.TTL,
	}
	c.PageController = controller.NewPageController(userService)
	c.AuthController = controller.NewAuthController(authService, sessionService, cookie, sysLogger)
	c.PredictionController = controller.NewPredictionController(predictionService, cfg.App.TrustBodyUsername)
	c.SessionService = sessionService

	return c, nil
}

// Close releases the connections opened by NewContainer, last opened first.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
