package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/cpfledger/pkg/domain/events"
	"github.com/amirasaad/cpfledger/pkg/eventbus"
)

// DefaultPublishedLimit is how many recent events a MemoryEventBus keeps.
const DefaultPublishedLimit = 1000

// MemoryEventBus is a synchronous in-memory implementation of eventbus.Bus.
// It keeps the most recent events for inspection.
type MemoryEventBus struct {
	handlers  map[events.EventType][]eventbus.HandlerFunc
	mu        sync.RWMutex
	logger    *slog.Logger
	published []events.Event
	limit     int
}

// MemoryOption configures a MemoryEventBus.
type MemoryOption func(*MemoryEventBus)

// WithPublishedLimit sets how many recent events are kept. Zero disables
// recording.
func WithPublishedLimit(n int) MemoryOption {
	return func(b *MemoryEventBus) {
		if n >= 0 {
			b.limit = n
		}
	}
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger, opts ...MemoryOption) *MemoryEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	b := &MemoryEventBus{
		handlers:  make(map[events.EventType][]eventbus.HandlerFunc),
		logger:    logger.With("bus", "memory"),
		published: make([]events.Event, 0),
		limit:     DefaultPublishedLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit records the event and dispatches it to every handler registered for
// its type. Handler failures are logged and do not stop the remaining handlers.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	eventType := events.EventType(event.Type())

	b.mu.Lock()
	b.record(event)
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[eventType]...)
	b.mu.Unlock()

	dispatch(ctx, b.logger, event, handlers)
	return nil
}

// record appends event and drops the oldest ones once the buffer holds twice
// the limit. Caller holds b.mu.
func (b *MemoryEventBus) record(event events.Event) {
	if b.limit == 0 {
		return
	}
	b.published = append(b.published, event)
	if len(b.published) >= 2*b.limit {
		n := copy(b.published, b.published[len(b.published)-b.limit:])
		clear(b.published[n:])
		b.published = b.published[:n]
	}
}

// ClearPublished clears the list of published events.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = make([]events.Event, 0)
}

// Published returns a copy of the most recent events, oldest first.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	recent := b.published
	if len(recent) > b.limit {
		recent = recent[len(recent)-b.limit:]
	}
	return append([]events.Event(nil), recent...)
}

func dispatch(ctx context.Context, logger *slog.Logger, event events.Event, handlers []eventbus.HandlerFunc) {
	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered in event handler", "type", event.Type(), "panic", r)
				}
			}()
			if err := handler(ctx, event); err != nil {
				logger.Error("failed to process event", "type", event.Type(), "error", err)
			}
		}()
	}
}

// Ensure MemoryEventBus implements the Bus interface.
var _ eventbus.Bus = (*MemoryEventBus)(nil)
