package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Change kinds emitted by the session service.
const (
	KindCreated           = "created"
	KindSearch            = "search"
	KindAddMore           = "add_more"
	KindSelection         = "selection"
	KindShuffle           = "shuffle"
	KindClear             = "clear"
	KindHome              = "home"
	KindGalleryView       = "gallery_view"
	KindGalleryPage       = "gallery_page"
	KindPresentationStart = "presentation_start"
	KindAdvance           = "advance"
	KindAutoAdvance       = "auto_advance"
	KindAutoPlay          = "autoplay"
	KindPresentationExit  = "presentation_exit"
	KindMemoryStart       = "memory_start"
	KindFlip              = "flip"
	KindMemoryReshuffle   = "memory_reshuffle"
	KindMemoryExit        = "memory_exit"
	KindSessionClosed     = "closed"
)

// ChangeEvent describes one applied mutation of a session.
type ChangeEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// SessionID identifies the session that changed
	SessionID uuid.UUID `json:"session_id"`

	// Kind names the operation that produced the change
	Kind string `json:"kind"`

	// Mode is the session mode after the change
	Mode string `json:"mode"`

	// Payload carries operation-specific detail serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *ChangeEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewChangeEvent creates a ChangeEvent. A nil payload is left empty.
func NewChangeEvent(sessionID uuid.UUID, kind, mode string, payload interface{}) (*ChangeEvent, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &ChangeEvent{
		ID:        uuid.New(),
		SessionID: sessionID,
		Kind:      kind,
		Mode:      mode,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *ChangeEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *ChangeEvent) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *ChangeEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ChangeEvent) error
}

// ForSession wraps a handler so it only sees events of one session.
func ForSession(sessionID uuid.UUID, handler EventHandler) EventHandler {
	return HandlerFunc(func(ctx context.Context, event *ChangeEvent) error {
		if event.SessionID != sessionID {
			return nil
		}
		return handler.HandleEvent(ctx, event)
	})
}
