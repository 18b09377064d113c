package service

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/phrazzld/scry-flashcards/internal/domain/session"
	"github.com/phrazzld/scry-flashcards/internal/task"
)

// handle is a live session: its state plus the loop that owns it.
type handle struct {
	id       uuid.UUID
	state    *session.State
	runner   *task.Runner
	autoplay *task.Repeater
	stopOnce sync.Once
	evicted  atomic.Bool
}

func newHandle(pageSize, queueSize int, logger *slog.Logger) *handle {
	id := uuid.New()
	h := &handle{
		id:       id,
		state:    session.New(pageSize),
		runner:   task.NewRunner(queueSize, logger.With(slog.String("session_id", id.String()))),
		autoplay: task.NewRepeater(),
	}
	h.runner.Start()
	return h
}

// shutdown stops auto-play and the command loop. Safe to call repeatedly
// and from several goroutines; later callers wait for the first to finish.
func (h *handle) shutdown() {
	h.stopOnce.Do(func() {
		h.autoplay.Stop()
		h.runner.Stop()
	})
}

// registry holds live sessions and expires idle ones.
type registry struct {
	sessions *expirable.LRU[uuid.UUID, *handle]
	logger   *slog.Logger
}

func newRegistry(maxSessions int, idleTTL time.Duration, logger *slog.Logger) *registry {
	r := &registry{logger: logger}
	r.sessions = expirable.NewLRU[uuid.UUID, *handle](maxSessions, r.onEvict, idleTTL)
	return r
}

// onEvict runs with the cache lock held, so the handle is stopped on its
// own goroutine.
func (r *registry) onEvict(id uuid.UUID, h *handle) {
	if h.evicted.Swap(true) {
		return
	}
	r.logger.Info("session evicted", slog.String("session_id", id.String()))
	go h.shutdown()
}

func (r *registry) add(h *handle) {
	r.sessions.Add(h.id, h)
}

// touch returns the session and restarts its idle timer. Get does not
// renew the TTL, so the handle is added again; if it was evicted in
// between, the re-added entry is dropped.
func (r *registry) touch(id uuid.UUID) (*handle, bool) {
	h, ok := r.sessions.Get(id)
	if !ok {
		return nil, false
	}
	r.sessions.Add(id, h)
	if h.evicted.Load() {
		r.sessions.Remove(id)
		return nil, false
	}
	return h, true
}

func (r *registry) remove(id uuid.UUID) (*handle, bool) {
	h, ok := r.sessions.Peek(id)
	if !ok {
		return nil, false
	}
	r.sessions.Remove(id)
	return h, true
}

func (r *registry) len() int {
	return r.sessions.Len()
}

// drain removes every session and returns them.
func (r *registry) drain() []*handle {
	handles := r.sessions.Values()
	r.sessions.Purge()
	return handles
}
