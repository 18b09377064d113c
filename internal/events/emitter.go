package events

import (
	"context"
	"log/slog"
	"sync"
)

type registeredHandler struct {
	id      uint64
	handler EventHandler
}

// InMemoryEventEmitter stores registered handlers in memory and dispatches
// events to them synchronously in registration order.
type InMemoryEventEmitter struct {
	handlers []registeredHandler
	nextID   uint64
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		handlers: make([]registeredHandler, 0),
		logger:   logger.With("component", "in_memory_event_emitter"),
	}
}

// RegisterHandler adds a handler and returns a function that removes it.
// The returned function is safe to call more than once.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.handlers = append(e.handlers, registeredHandler{id: id, handler: handler})
	e.logger.Debug("registered new event handler", "handler_count", len(e.handlers))

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, h := range e.handlers {
			if h.id == id {
				e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
				e.logger.Debug("unregistered event handler", "handler_count", len(e.handlers))
				return
			}
		}
	}
}

// HandlerCount returns the number of registered handlers.
func (e *InMemoryEventEmitter) HandlerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers)
}

// EmitEvent publishes the given event to all registered handlers.
// If any handler returns an error, the event will still be sent to all other handlers,
// and the first error encountered will be returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *ChangeEvent) error {
	e.mu.RLock()
	handlers := make([]registeredHandler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	e.logger.Debug("emitting event",
		"event_id", event.ID,
		"session_id", event.SessionID,
		"kind", event.Kind,
		"handler_count", len(handlers))

	var firstErr error
	for _, h := range handlers {
		if err := h.handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_id", h.id,
				"event_id", event.ID,
				"kind", event.Kind)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
