package task

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestRepeaterTicksWithGeneration(t *testing.T) {
	r := NewRepeater()
	defer r.Stop()

	ticks := make(chan uint64, 10)
	gen := r.Start(10*time.Millisecond, func(g uint64) { ticks <- g })

	for i := 0; i < 3; i++ {
		select {
		case g := <-ticks:
			assert.Equal(t, gen, g)
		case <-time.After(time.Second):
			t.Fatal("expected a tick")
		}
	}
	assert.True(t, r.Running())
	assert.True(t, r.Current(gen))
}

func TestRepeaterStopAbortsPendingWait(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := NewRepeater()

	var fired atomic.Int32
	gen := r.Start(50*time.Millisecond, func(uint64) { fired.Add(1) })
	r.Stop()

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.False(t, r.Running())
	assert.False(t, r.Current(gen))

	// stopping an idle repeater is a no-op
	r.Stop()
}

func TestRepeaterRestartInvalidatesOldGeneration(t *testing.T) {
	r := NewRepeater()
	defer r.Stop()

	first := r.Start(time.Hour, func(uint64) {})
	second := r.Start(time.Hour, func(uint64) {})

	assert.NotEqual(t, first, second)
	assert.False(t, r.Current(first))
	assert.True(t, r.Current(second))
}
