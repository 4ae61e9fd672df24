package initializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	infra_eventbus "github.com/amirasaad/cpfledger/infra/eventbus"
	"github.com/amirasaad/cpfledger/pkg/app"
	"github.com/amirasaad/cpfledger/pkg/config"
	"github.com/amirasaad/cpfledger/pkg/eventbus"
	"github.com/amirasaad/cpfledger/pkg/ledger"
	"github.com/amirasaad/cpfledger/pkg/store"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(ctx context.Context, cfg *config.App, logOut io.Writer) (
	deps *app.Deps,
	err error,
) {
	deps = &app.Deps{}
	logger := setupLogger(cfg.Log, logOut)
	deps.Logger = logger

	loc, err := cfg.Ledger.Location()
	if err != nil {
		return nil, err
	}
	deps.Engine = ledger.New(ledger.WithLocation(loc))
	deps.Store = store.NewMemory()

	deps.EventBus, err = initEventBus(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	logger.Info("Dependencies initialized",
		"ledger_timezone", loc.String(),
		"event_bus", cfg.EventBus.Driver,
	)
	return deps, nil
}

// initEventBus builds the bus selected by the config. A Kafka cluster or Redis
// server that cannot be reached at startup falls back to the in-memory bus.
func initEventBus(ctx context.Context, cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	driver := config.EventBusDriverMemory
	if cfg.EventBus != nil && cfg.EventBus.Driver != "" {
		driver = cfg.EventBus.Driver
	}

	switch driver {
	case config.EventBusDriverMemory:
		return infra_eventbus.NewWithMemory(logger), nil
	case config.EventBusDriverKafka:
		k := cfg.EventBus.Kafka
		if k == nil || k.Brokers == "" {
			return nil, fmt.Errorf("kafka event bus: brokers are required")
		}
		bus, err := infra_eventbus.NewWithKafka(ctx, k.Brokers, logger, &infra_eventbus.KafkaEventBusConfig{
			TopicPrefix:  k.TopicPrefix,
			DialTimeout:  k.DialTimeout,
			WriteTimeout: k.WriteTimeout,
			SASLUsername: k.SASLUsername,
			SASLPassword: k.SASLPassword,
		})
		if err != nil {
			logger.Warn("Kafka unavailable, falling back to memory event bus", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	case config.EventBusDriverRedis:
		r := cfg.EventBus.Redis
		if r == nil || r.URL == "" {
			return nil, fmt.Errorf("redis event bus: url is required")
		}
		bus, err := infra_eventbus.NewWithRedis(ctx, r.URL, logger, &infra_eventbus.RedisEventBusConfig{
			StreamPrefix: r.StreamPrefix,
			Group:        r.Group,
			Block:        r.Block,
		})
		if err != nil {
			logger.Warn("Redis unavailable, falling back to memory event bus", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unknown event bus driver %q", driver)
	}
}
