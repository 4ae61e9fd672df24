package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/cpfledger/pkg/domain/events"
	"github.com/amirasaad/cpfledger/pkg/eventbus"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const defaultTopicPrefix = "cpfledger.events"

// KafkaEventBusConfig holds configuration for the Kafka event bus.
type KafkaEventBusConfig struct {
	TopicPrefix  string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	SASLUsername string
	SASLPassword string
}

// DefaultKafkaEventBusConfig returns default configuration for KafkaEventBus.
func DefaultKafkaEventBusConfig() *KafkaEventBusConfig {
	return &KafkaEventBusConfig{
		TopicPrefix:  defaultTopicPrefix,
		DialTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventBus publishes enveloped events to Kafka, one topic per event
// type, and dispatches them to in-process handlers once the write succeeds.
type KafkaEventBus struct {
	writer messageWriter
	prefix string
	now    func() time.Time

	handlers map[events.EventType][]eventbus.HandlerFunc
	mu       sync.RWMutex

	logger *slog.Logger
}

// NewWithKafka creates a new Kafka-backed event bus.
// brokers: Comma-separated brokers list (e.g. "localhost:9092,localhost:9093").
func NewWithKafka(
	ctx context.Context,
	brokers string,
	logger *slog.Logger,
	config *KafkaEventBusConfig,
) (*KafkaEventBus, error) {
	parsedBrokers := parseBrokers(brokers)
	if len(parsedBrokers) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	if config == nil {
		config = DefaultKafkaEventBusConfig()
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = 5 * time.Second
	}

	dialer := &kafka.Dialer{Timeout: config.DialTimeout}
	var transport *kafka.Transport
	if config.SASLUsername != "" {
		mechanism := plain.Mechanism{Username: config.SASLUsername, Password: config.SASLPassword}
		dialer.SASLMechanism = mechanism
		transport = &kafka.Transport{SASL: mechanism, DialTimeout: config.DialTimeout}
	}
	conn, err := dialer.DialContext(ctx, "tcp", parsedBrokers[0])
	if err != nil {
		return nil, fmt.Errorf("kafka event bus: connection failed: %w", err)
	}
	_ = conn.Close()

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(parsedBrokers...),
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           config.WriteTimeout,
	}
	if transport != nil {
		writer.Transport = transport
	}

	bus := newKafkaEventBus(writer, config.TopicPrefix, logger)
	bus.logger.Info("🚀 Kafka event bus initialized",
		"brokers", parsedBrokers,
		"topic_prefix", bus.prefix,
		"sasl_enabled", dialer.SASLMechanism != nil,
	)
	return bus, nil
}

func newKafkaEventBus(w messageWriter, prefix string, logger *slog.Logger) *KafkaEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultTopicPrefix
	}
	return &KafkaEventBus{
		writer:   w,
		prefix:   prefix,
		now:      time.Now,
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "kafka"),
	}
}

// Register registers an in-process handler for a specific event type.
func (b *KafkaEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to Kafka.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	if b == nil || b.writer == nil {
		return fmt.Errorf("kafka event bus: writer not initialized")
	}

	envBytes, err := buildEnvelope(event)
	if err != nil {
		return err
	}

	eventType := events.EventType(event.Type())
	msg := kafka.Message{
		Topic: TopicName(b.prefix, eventType),
		Key:   []byte(partitionKey(event)),
		Value: envBytes,
		Time:  b.now(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}

	b.mu.RLock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[eventType]...)
	b.mu.RUnlock()
	dispatch(ctx, b.logger, event, handlers)
	return nil
}

// Close flushes and closes the underlying writer.
func (b *KafkaEventBus) Close() error {
	if b == nil || b.writer == nil {
		return nil
	}
	return b.writer.Close()
}

// partitionKey keeps every event of one account on the same partition.
func partitionKey(event events.Event) string {
	switch e := event.(type) {
	case events.AccountRegistered:
		return e.CPF
	case events.AccountRenamed:
		return e.CPF
	case events.AccountRemoved:
		return e.CPF
	case events.DepositMade:
		return e.CPF
	case events.WithdrawalMade:
		return e.CPF
	}
	return event.Type()
}

// TopicName returns the topic an event type is published to.
func TopicName(prefix string, eventType events.EventType) string {
	return prefix + "." + eventType.String()
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
