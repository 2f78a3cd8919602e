package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish synchronously invokes handlers for the given event.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			// continue processing other handlers despite errors
		}
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// redisDispatcher wraps the in-memory dispatcher and mirrors every event to
// a Redis channel so other processes can observe the stream. A publish
// failure never fails the originating request.
type redisDispatcher struct {
	inner   Dispatcher
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisDispatcher creates a dispatcher that fans out to Redis.
func NewRedisDispatcher(client *redis.Client, channel string, logger *zap.Logger) Dispatcher {
	return &redisDispatcher{
		inner:   NewInMemoryDispatcher(),
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (d *redisDispatcher) Publish(ctx context.Context, event Event) error {
	if err := d.inner.Publish(ctx, event); err != nil {
		return err
	}
	if d.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Warn("marshal event", zap.Error(err), zap.String("event_type", string(event.Type)))
		return nil
	}
	if err := d.client.Publish(ctx, d.channel, payload).Err(); err != nil {
		d.logger.Warn("publish event to redis", zap.Error(err), zap.String("event_type", string(event.Type)))
	}
	return nil
}

func (d *redisDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.inner.Subscribe(eventType, handler)
}
