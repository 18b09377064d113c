package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-flashcards/internal/task"
)

func newTestRegistry(t *testing.T) *registry {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := newRegistry(10, time.Hour, logger)
	t.Cleanup(func() {
		for _, h := range r.drain() {
			h.shutdown()
		}
	})
	return r
}

func TestRegistryTouch(t *testing.T) {
	r := newTestRegistry(t)
	h := newHandle(3, 4, r.logger)
	r.add(h)

	got, ok := r.touch(h.id)
	require.True(t, ok)
	assert.Same(t, h, got)
	assert.Equal(t, 1, r.len())
}

func TestRegistryTouchDropsEvictedHandle(t *testing.T) {
	r := newTestRegistry(t)
	h := newHandle(3, 4, r.logger)
	r.add(h)

	// eviction lands between the lookup and the TTL renewal
	r.onEvict(h.id, h)

	_, ok := r.touch(h.id)
	assert.False(t, ok)
	assert.Equal(t, 0, r.len())
}

func TestRegistryRemoveShutsDownHandle(t *testing.T) {
	r := newTestRegistry(t)
	h := newHandle(3, 4, r.logger)
	r.add(h)

	got, ok := r.remove(h.id)
	require.True(t, ok)
	assert.Same(t, h, got)
	assert.True(t, h.evicted.Load())

	// waits for the shutdown started by the eviction
	h.shutdown()
	err := h.runner.Submit(task.NewFuncTask("late", func(context.Context) error { return nil }))
	assert.ErrorIs(t, err, task.ErrRunnerStopped)
	_, ok = r.touch(h.id)
	assert.False(t, ok)
}
