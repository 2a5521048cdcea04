// Package event delivers occupancy domain events to in-process handlers
// after the producing transaction has committed.
package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/boardinghouse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BusOption configures an InMemoryEventBus
type BusOption func(*InMemoryEventBus)

// WithAsyncHandlers dispatches each event to its handlers on separate
// goroutines. Stop waits for in-flight deliveries.
func WithAsyncHandlers(async bool) BusOption {
	return func(b *InMemoryEventBus) { b.async = async }
}

// InMemoryEventBus implements shared.EventBus with in-memory pub/sub.
// Handler failures are logged and never reach the publisher: the change that
// produced the event is already committed.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	async    bool
	running  atomic.Bool
	wg       sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus. The bus accepts
// events immediately; Start and Stop only matter for async delivery.
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.running.Store(true)
	return b
}

// Publish hands events to every matching handler in publish order
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.Handlers(event.EventType()) {
			if b.async && b.running.Load() {
				b.wg.Add(1)
				go func(h shared.EventHandler, e shared.DomainEvent) {
					defer b.wg.Done()
					b.deliver(context.WithoutCancel(ctx), h, e)
				}(handler, event)
				continue
			}
			b.deliver(ctx, handler, event)
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start enables async delivery
func (b *InMemoryEventBus) Start(context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started", zap.Bool("async", b.async))
	return nil
}

// Stop switches to synchronous delivery and waits for in-flight handlers
// until ctx is done
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

func (b *InMemoryEventBus) deliver(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	if err := b.dispatchToHandler(ctx, handler, event); err != nil {
		b.logger.Error("handler failed to process event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	}
}

// dispatchToHandler turns a handler panic into an error
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
