package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/cpfledger/pkg/domain/events"
	"github.com/amirasaad/cpfledger/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

const defaultStreamPrefix = "cpfledger"

// RedisEventBusConfig holds configuration for the Redis Streams event bus.
type RedisEventBusConfig struct {
	StreamPrefix string
	Group        string
	Block        time.Duration
}

// DefaultRedisEventBusConfig returns default configuration for RedisEventBus.
func DefaultRedisEventBusConfig() *RedisEventBusConfig {
	return &RedisEventBusConfig{
		StreamPrefix: defaultStreamPrefix,
		Group:        "cpfledger",
		Block:        5 * time.Second,
	}
}

// streamClient is the subset of *redis.Client the bus needs.
type streamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	Close() error
}

// RedisEventBus appends enveloped events to one Redis stream per event type
// and runs a consumer-group reader for every registered handler. Handlers run
// asynchronously; failed deliveries are copied to the type's DLQ stream.
type RedisEventBus struct {
	client streamClient
	cfg    RedisEventBusConfig
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	counts map[events.EventType]int
}

// NewWithRedis creates a new Redis-backed event bus.
// url: Redis connection URL (e.g. "redis://localhost:6379/0").
func NewWithRedis(ctx context.Context, url string, logger *slog.Logger, config *RedisEventBusConfig) (*RedisEventBus, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("redis event bus: url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}

	bus := newRedisEventBus(client, config, logger)
	bus.logger.Info("🚀 Redis event bus initialized",
		"addr", opt.Addr,
		"stream_prefix", bus.cfg.StreamPrefix,
		"group", bus.cfg.Group,
	)
	return bus, nil
}

func newRedisEventBus(client streamClient, config *RedisEventBusConfig, logger *slog.Logger) *RedisEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := *DefaultRedisEventBusConfig()
	if config != nil {
		if strings.TrimSpace(config.StreamPrefix) != "" {
			cfg.StreamPrefix = config.StreamPrefix
		}
		if strings.TrimSpace(config.Group) != "" {
			cfg.Group = config.Group
		}
		if config.Block > 0 {
			cfg.Block = config.Block
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client: client,
		cfg:    cfg,
		logger: logger.With("bus", "redis"),
		ctx:    ctx,
		cancel: cancel,
		counts: make(map[events.EventType]int),
	}
}

// Emit appends the event to its stream.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	envBytes, err := buildEnvelope(event)
	if err != nil {
		return err
	}
	eventType := events.EventType(event.Type())
	_, err = b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName(b.cfg.StreamPrefix, eventType),
		Values: map[string]any{
			"event": string(envBytes),
			"key":   partitionKey(event),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	return nil
}

// Register starts a consumer for the event type's stream. Every handler reads
// through its own consumer group so each one sees every event.
func (b *RedisEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	stream := StreamName(b.cfg.StreamPrefix, eventType)

	b.mu.Lock()
	n := b.counts[eventType]
	b.counts[eventType]++
	b.mu.Unlock()
	group := fmt.Sprintf("%s:%s:%d", b.cfg.Group, strings.ToLower(eventType.String()), n)
	consumer := "consumer"

	if err := b.client.XGroupCreateMkStream(b.ctx, stream, group, "0").Err(); err != nil &&
		!strings.Contains(err.Error(), "BUSYGROUP") {
		b.logger.Error("failed to create consumer group", "stream", stream, "group", group, "error", err)
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(stream, group, consumer, handler)
	}()
	b.logger.Debug("handler registered", "event_type", eventType, "stream", stream, "group", group)
}

func (b *RedisEventBus) consume(stream, group, consumer string, handler eventbus.HandlerFunc) {
	for {
		if b.ctx.Err() != nil {
			return
		}
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  []string{stream, ">"},
			Count:    10,
			Block:    b.cfg.Block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if b.ctx.Err() != nil {
				return
			}
			b.logger.Error("error reading from stream", "stream", stream, "error", err)
			select {
			case <-b.ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		for _, s := range res {
			for _, msg := range s.Messages {
				b.handle(stream, group, msg, handler)
			}
		}
	}
}

func (b *RedisEventBus) handle(stream, group string, msg redis.XMessage, handler eventbus.HandlerFunc) {
	defer func() {
		if err := b.client.XAck(b.ctx, stream, group, msg.ID).Err(); err != nil {
			b.logger.Error("failed to acknowledge message", "msg_id", msg.ID, "error", err)
		}
	}()

	raw, ok := msg.Values["event"].(string)
	if !ok {
		b.pushToDLQ(stream, msg.Values, "missing event field")
		return
	}
	evt, err := DecodeEnvelope([]byte(raw))
	if err != nil {
		b.pushToDLQ(stream, msg.Values, err.Error())
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.pushToDLQ(stream, msg.Values, fmt.Sprint(r))
		}
	}()
	if err := handler(b.ctx, events.Value(evt)); err != nil {
		b.pushToDLQ(stream, msg.Values, err.Error())
	}
}

func (b *RedisEventBus) pushToDLQ(stream string, values map[string]any, reason string) {
	dlq := DLQStreamName(stream)
	out := make(map[string]any, len(values)+1)
	for k, v := range values {
		out[k] = v
	}
	out["reason"] = reason
	if err := b.client.XAdd(b.ctx, &redis.XAddArgs{Stream: dlq, Values: out}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "stream", dlq, "error", err)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlq, "reason", reason)
}

// Close stops every consumer and closes the client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}

// StreamName returns the stream an event type is appended to, for example
// "cpfledger:deposit:made".
func StreamName(prefix string, eventType events.EventType) string {
	return prefix + ":" + strings.ToLower(strings.ReplaceAll(eventType.String(), ".", ":"))
}

// DLQStreamName returns the dead-letter stream for a stream.
func DLQStreamName(stream string) string {
	return stream + ":dlq"
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
