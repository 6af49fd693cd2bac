package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"axon-assistant/internal/config"
	"axon-assistant/internal/controller"
	"axon-assistant/internal/handler"
	"axon-assistant/internal/pkg/logger"
	"axon-assistant/internal/repository/contract"
	"axon-assistant/internal/repository/implementation"
	"axon-assistant/internal/repository/memory"
	"axon-assistant/internal/repository/redisrepo"
	"axon-assistant/internal/service"
	"axon-assistant/internal/websocket"
	"axon-assistant/pkg/database"
	"axon-assistant/pkg/device"
	"axon-assistant/pkg/facts"
	"axon-assistant/pkg/fetch"
	"axon-assistant/pkg/intent"
	"axon-assistant/pkg/lookup"
	pktNats "axon-assistant/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	ListController      controller.IListController

	// Services (the terminal client talks to these directly)
	AssistantService service.IAssistantService
	ListService      service.IListService
	HistoryService   service.IHistoryService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets; nil in terminal mode
	OutputHandler *handler.OutputHandler
	WebSocketHub  *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

type buildOptions struct {
	terminal io.Writer
}

type Option func(*buildOptions)

// WithTerminal renders output to w instead of the WebSocket hub. There is
// no capture hardware in this mode.
func WithTerminal(w io.Writer) Option {
	return func(o *buildOptions) {
		o.terminal = w
	}
}

func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	c := &Container{}

	// 1. Core Facades
	var sysLogger logger.ILogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	if bo.terminal != nil {
		// the console belongs to the conversation
		sysLogger = logger.NewIsolatedLogger(cfg.App.LogFilePath)
	}
	c.Logger = sysLogger
	c.closers = append(c.closers, func() { _ = sysLogger.Sync() })

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var events service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		events = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	rdb := connectRedis(cfg)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// 4. Persistence
	lists, history, err := newRepositories(cfg, rdb)
	if err != nil {
		c.Close()
		return nil, err
	}
	sessions := memory.NewSessionRepository(cfg.Assistant.DisambiguationTTL)

	// 5. Output and capture
	var sink device.OutputSink
	var capture device.CaptureDevice
	if bo.terminal != nil {
		sink = device.NewTerminalSink(bo.terminal)
		capture = device.Unavailable{}
	} else {
		hub := websocket.NewHub(rdb, logger.NewIsolatedLogger(cfg.App.HubLogFilePath))
		hubCtx, stopHub := context.WithCancel(context.Background())
		go hub.Run(hubCtx)
		c.closers = append(c.closers, stopHub)

		sink, capture = hub, hub
		c.WebSocketHub = hub
		c.OutputHandler = handler.NewOutputHandler(hub, sysLogger)
	}

	// 6. Services
	factStore, err := facts.NewDefaultStore(cfg.Assistant.OwnerName, cfg.Assistant.FactsFile)
	if err != nil {
		c.Close()
		return nil, err
	}

	fetcher := fetch.NewFetcher(fetch.Config{
		Timeout:      cfg.Fetch.Timeout,
		RelayTimeout: cfg.Fetch.RelayTimeout,
		UserAgent:    cfg.Fetch.UserAgent,
	}, sysLogger)
	lookupClient := lookup.NewClient(fetcher, lookup.Endpoints{
		Summary:        cfg.Endpoints.Summary,
		ReverseGeocode: cfg.Endpoints.ReverseGeocode,
		Weather:        cfg.Endpoints.Weather,
		ExchangeRate:   cfg.Endpoints.ExchangeRate,
		ShowSearch:     cfg.Endpoints.ShowSearch,
		WebSearch:      cfg.Endpoints.WebSearch,
	})

	var defaultPosition *device.Position
	if cfg.Assistant.HasDefaultLocation() {
		defaultPosition = &device.Position{
			Latitude:  *cfg.Assistant.DefaultLatitude,
			Longitude: *cfg.Assistant.DefaultLongitude,
		}
	}

	c.ListService = service.NewListService(lists)
	c.HistoryService = service.NewHistoryService(history)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.HistoryTopic, history, sysLogger)

	c.AssistantService = service.NewAssistantService(service.AssistantDependencies{
		Facts:      factStore,
		Classifier: intent.NewClassifier(),
		Lookup:     lookupClient,
		Sessions:   sessions,
		Lists:      c.ListService,
		Capture:    capture,
		Recordings: device.NewRecordingStore(cfg.App.UploadsDir),
		Sink:       sink,
		History:    service.NewPublisherService(cfg.App.HistoryTopic, pubSub),
		Events:     events,
		Logger:     sysLogger,
	}, service.AssistantOptions{
		SessionTTL:     cfg.Assistant.DisambiguationTTL,
		RecordWindow:   cfg.Assistant.RecordWindow,
		DefaultVoice:   cfg.Assistant.DefaultVoice,
		DefaultLocator: device.DefaultLocator(defaultPosition),
		EventTimeout:   cfg.Assistant.EventPublishTimeout,
	})

	// 7. Controllers
	c.AssistantController = controller.NewAssistantController(c.AssistantService, c.HistoryService)
	c.ListController = controller.NewListController(c.ListService)

	sysLogger.Info("Container", "Assistant ready", map[string]interface{}{
		"persistence": cfg.Persistence.Driver,
		"nats":        events != nil,
		"redis":       rdb != nil,
		"terminal":    bo.terminal != nil,
	})
	return c, nil
}

// Close releases connections in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.App.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func newRepositories(cfg *config.Config, rdb *redis.Client) (contract.ListRepository, contract.InteractionRepository, error) {
	switch cfg.Persistence.Driver {
	case config.DriverPostgres:
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres persistence: %w", err)
		}
		return implementation.NewListRepository(db), implementation.NewInteractionRepository(db), nil
	case config.DriverRedis:
		if rdb == nil {
			return nil, nil, fmt.Errorf("redis persistence: redis at %q is unreachable", cfg.App.RedisURL)
		}
		return redisrepo.NewListRepository(rdb), redisrepo.NewInteractionRepository(rdb, cfg.Assistant.HistoryCapacity), nil
	case config.DriverMemory, "":
		return memory.NewListRepository(), memory.NewInteractionRepository(cfg.Assistant.HistoryCapacity), nil
	default:
		return nil, nil, fmt.Errorf("unknown persistence driver %q", cfg.Persistence.Driver)
	}
}
