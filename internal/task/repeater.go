package task

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Repeater calls a function on a fixed interval until stopped. Each run of
// the schedule has a generation number; Stop and Start both advance it so
// work carrying an older generation can recognise itself as stale.
type Repeater struct {
	mu      sync.Mutex
	gen     atomic.Uint64
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewRepeater returns an idle Repeater.
func NewRepeater() *Repeater {
	return &Repeater{}
}

// Start stops any running schedule and begins calling tick every interval.
// tick receives the generation of the schedule that fired it. The first
// call happens one full interval after Start.
func (r *Repeater) Start(interval time.Duration, tick func(gen uint64)) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()

	gen := r.gen.Add(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.running = true

	go func() {
		defer close(done)
		timer := time.NewTimer(interval)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			// cancellation wins over a timer that fired at the same moment
			if ctx.Err() != nil {
				return
			}
			tick(gen)
			timer.Reset(interval)
		}
	}()

	return gen
}

// Stop cancels the schedule, aborting any pending wait, and returns once
// no further tick can be fired.
func (r *Repeater) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Repeater) stopLocked() {
	if !r.running {
		return
	}
	r.gen.Add(1)
	r.cancel()
	<-r.done
	r.running = false
	r.cancel = nil
	r.done = nil
}

// Running reports whether a schedule is active.
func (r *Repeater) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Current reports whether gen belongs to the active schedule.
func (r *Repeater) Current(gen uint64) bool {
	return r.gen.Load() == gen
}
