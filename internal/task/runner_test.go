package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRunnerProcessesInOrder(t *testing.T) {
	r := NewRunner(100, setupTestLogger())
	r.Start()
	defer r.Stop()

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 20; i++ {
		i := i
		require.NoError(t, r.Submit(NewFuncTask("append", func(context.Context) error {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			return nil
		})))
	}

	// Do is queued behind every submitted task
	err := r.Do(context.Background(), "barrier", func(context.Context) error { return nil })
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	want := make([]int, 20)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestRunnerDoReturnsResult(t *testing.T) {
	r := NewRunner(4, setupTestLogger())
	r.Start()
	defer r.Stop()

	boom := errors.New("boom")
	err := r.Do(context.Background(), "fail", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	value := 0
	err = r.Do(context.Background(), "set", func(context.Context) error {
		value = 42
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestRunnerDoCancelledBeforeExecution(t *testing.T) {
	r := NewRunner(4, setupTestLogger())
	r.Start()
	defer r.Stop()

	release := make(chan struct{})
	require.NoError(t, r.Submit(NewFuncTask("block", func(context.Context) error {
		<-release
		return nil
	})))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	ran := make(chan struct{}, 1)
	err := r.Do(ctx, "late", func(context.Context) error {
		ran <- struct{}{}
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, r.Do(context.Background(), "barrier", func(context.Context) error { return nil }))

	select {
	case <-ran:
		t.Fatal("abandoned task should not run")
	default:
	}
}

func TestRunnerDoWaitsForStartedTask(t *testing.T) {
	r := NewRunner(4, setupTestLogger())
	r.Start()
	defer r.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	release := make(chan struct{})
	applied := false
	done := make(chan error, 1)
	go func() {
		done <- r.Do(ctx, "slow", func(context.Context) error {
			close(started)
			<-release
			applied = true
			return nil
		})
	}()

	<-started
	cancel()
	select {
	case err := <-done:
		t.Fatalf("Do returned %v before the running task finished", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, applied)
	case <-time.After(time.Second):
		t.Fatal("Do did not return")
	}
}

func TestRunnerDoReturnsPanicAsError(t *testing.T) {
	r := NewRunner(4, setupTestLogger())
	r.Start()
	defer r.Stop()

	err := r.Do(context.Background(), "explode", func(context.Context) error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explode panicked: boom")

	// the consumer keeps running
	require.NoError(t, r.Do(context.Background(), "after", func(context.Context) error { return nil }))
}

func TestRunnerErrorHandlerAndPanic(t *testing.T) {
	r := NewRunner(4, setupTestLogger())

	failures := make(chan error, 1)
	r.SetErrorHandler(func(_ Task, err error) { failures <- err })
	r.Start()
	defer r.Stop()

	require.NoError(t, r.Submit(NewFuncTask("panic", func(context.Context) error {
		panic("bad tick")
	})))
	require.NoError(t, r.Submit(NewFuncTask("fail", func(context.Context) error {
		return errors.New("tick failed")
	})))

	select {
	case err := <-failures:
		assert.EqualError(t, err, "tick failed")
	case <-time.After(time.Second):
		t.Fatal("error handler not called")
	}
}

func TestRunnerStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := NewRunner(1, setupTestLogger())
	r.Start()
	r.Stop()
	r.Stop()

	assert.ErrorIs(t, r.Submit(newMockTask()), ErrRunnerStopped)
	err := r.Do(context.Background(), "after", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrRunnerStopped)
}

func TestRunnerSubmitQueueFull(t *testing.T) {
	r := NewRunner(1, setupTestLogger())
	// not started, so nothing drains the queue
	defer r.Stop()

	require.NoError(t, r.Submit(newMockTask()))
	assert.ErrorIs(t, r.Submit(newMockTask()), ErrQueueFull)
}
