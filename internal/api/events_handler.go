package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/phrazzld/scry-flashcards/internal/events"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32

	// Stream message types.
	SnapshotMessage = "session.snapshot"
	ChangeMessage   = "session.change"
)

var errSlowSubscriber = errors.New("event subscriber too slow")

// StreamMessage is one websocket frame of the event stream.
type StreamMessage struct {
	Type  string              `json:"type"`
	View  *service.View       `json:"view,omitempty"`
	Event *events.ChangeEvent `json:"event,omitempty"`
}

func (m StreamMessage) encode() ([]byte, error) {
	return json.Marshal(m)
}

// Subscriber registers change handlers.
type Subscriber interface {
	RegisterHandler(handler events.EventHandler) func()
}

// EventsHandler streams session change events over a websocket.
type EventsHandler struct {
	sessions service.SessionService
	events   Subscriber
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(sessions service.SessionService, subscriber Subscriber, logger *slog.Logger) *EventsHandler {
	if sessions == nil || subscriber == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sessions, subscriber and logger are required for EventsHandler")
	}
	return &EventsHandler{
		sessions: sessions,
		events:   subscriber,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "events_handler")),
	}
}

// streamClient is one connected websocket. Frames queued before start are
// held back so the snapshot is always written first.
type streamClient struct {
	conn       *websocket.Conn
	send       chan []byte
	mu         sync.Mutex
	started    bool
	pending    [][]byte
	closeAfter bool
	closed     bool
	logger     *slog.Logger
}

func newStreamClient(logger *slog.Logger) *streamClient {
	return &streamClient{
		send:   make(chan []byte, sendBuffer),
		logger: logger,
	}
}

// enqueue queues a frame without blocking the session loop. A client that
// cannot keep up is disconnected.
func (c *streamClient) enqueue(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.closeAfter {
		return nil
	}
	if !c.started {
		if len(c.pending) >= sendBuffer-1 {
			c.closeLocked()
			return errSlowSubscriber
		}
		c.pending = append(c.pending, msg)
		return nil
	}
	return c.pushLocked(msg)
}

func (c *streamClient) pushLocked(msg []byte) error {
	select {
	case c.send <- msg:
		return nil
	default:
		c.closeLocked()
		return errSlowSubscriber
	}
}

// start queues the snapshot followed by any frames held back.
func (c *streamClient) start(snapshot []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.started = true
	for _, msg := range append([][]byte{snapshot}, c.pending...) {
		if err := c.pushLocked(msg); err != nil {
			return
		}
	}
	c.pending = nil
	if c.closeAfter {
		c.closeLocked()
	}
}

// finish closes the stream once everything queued so far is written.
func (c *streamClient) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		c.closeLocked()
		return
	}
	c.closeAfter = true
}

func (c *streamClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *streamClient) closeLocked() {
	if !c.closed {
		c.closed = true
		c.pending = nil
		close(c.send)
	}
}

// Stream handles GET /api/sessions/{id}/events
//
// The change handler is registered before the snapshot is read, so a
// change committed in between is delivered after the snapshot rather than
// lost. Such a change may already be reflected in the snapshot.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	id, ok := sessionIDFromPath(w, r, log)
	if !ok {
		return
	}

	client := newStreamClient(log.With(slog.String("session_id", id.String())))
	unregister := h.events.RegisterHandler(events.ForSession(id, events.HandlerFunc(
		func(_ context.Context, event *events.ChangeEvent) error {
			msg, err := StreamMessage{Type: ChangeMessage, Event: event}.encode()
			if err != nil {
				client.logger.Error("failed to encode change event",
					slog.String("event_id", event.ID.String()),
					slog.String("error", err.Error()))
				return err
			}
			err = client.enqueue(msg)
			if event.Kind == events.KindSessionClosed {
				client.finish()
			}
			return err
		})))
	defer unregister()

	view, err := h.sessions.View(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to open event stream")
		return
	}
	snapshot, err := StreamMessage{Type: SnapshotMessage, View: view}.encode()
	if err != nil {
		HandleAPIError(w, r, err, "Failed to open event stream")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written an HTTP error
		log.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	client.conn = conn
	client.start(snapshot)

	client.logger.Debug("event stream opened")
	go client.writePump()
	client.readPump()

	client.close()
	client.logger.Debug("event stream closed")
}

// readPump discards client frames and returns when the connection ends.
func (c *streamClient) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("unexpected websocket close", slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (c *streamClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
