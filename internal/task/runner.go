package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrRunnerStopped is returned when work is submitted to a stopped Runner.
var ErrRunnerStopped = errors.New("task runner is stopped")

// Runner processes tasks from its queue on a single goroutine, strictly in
// the order they were enqueued.
type Runner struct {
	queue      *TaskQueue
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	startOnce  sync.Once
	stopOnce   sync.Once
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewRunner creates a Runner with a queue of the given size.
func NewRunner(queueSize int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	r := &Runner{
		queue:  NewTaskQueue(queueSize, logger),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
	r.errHandler = func(task Task, err error) {
		r.logger.Debug("task execution failed",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"error", err)
	}
	return r
}

// SetErrorHandler sets the function called when a submitted task fails.
// Must be called before Start.
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	if handler != nil {
		r.errHandler = handler
	}
}

// Start launches the consumer goroutine. Calling Start more than once has
// no further effect.
func (r *Runner) Start() {
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.loop()
	})
}

// Stop closes the queue, cancels the task context and waits for the
// consumer to exit. Tasks still buffered are discarded.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.queue.Close()
		r.cancel()
		r.wg.Wait()
	})
}

// Submit enqueues a task without waiting for it to run. It fails with
// ErrQueueFull rather than block.
func (r *Runner) Submit(task Task) error {
	if r.ctx.Err() != nil {
		return ErrRunnerStopped
	}
	if err := r.queue.Enqueue(task); err != nil {
		if errors.Is(err, ErrQueueClosed) {
			return ErrRunnerStopped
		}
		return err
	}
	return nil
}

// Do states.
const (
	doPending int32 = iota
	doRunning
	doAbandoned
)

// Do enqueues fn and waits for its result. When ctx ends before fn has
// started, fn is skipped and Do returns ctx.Err(). Once fn has started Do
// waits for it, so a nil error always means fn ran to completion and a
// non-nil error never hides an applied change. A panic in fn is returned
// as an error.
func (r *Runner) Do(ctx context.Context, taskType string, fn func(ctx context.Context) error) error {
	var state atomic.Int32
	result := make(chan error, 1)

	t := NewFuncTask(taskType, func(taskCtx context.Context) (err error) {
		if !state.CompareAndSwap(doPending, doRunning) {
			return context.Canceled
		}
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("task %s panicked: %v", taskType, rec)
			}
			result <- err
		}()
		return fn(taskCtx)
	})

	if err := r.queue.EnqueueContext(ctx, t); err != nil {
		if errors.Is(err, ErrQueueClosed) {
			return ErrRunnerStopped
		}
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		if state.CompareAndSwap(doPending, doAbandoned) {
			return ctx.Err()
		}
		return <-result
	case <-r.ctx.Done():
		// a task still queued will never run once the consumer stops
		if state.CompareAndSwap(doPending, doAbandoned) {
			return ErrRunnerStopped
		}
		return <-result
	}
}

func (r *Runner) loop() {
	defer r.wg.Done()

	r.logger.Debug("starting task runner")
	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping task runner", "discarded", r.queue.Len())
			return
		case task := <-r.queue.GetChannel():
			r.process(task)
		}
	}
}

func (r *Runner) process(task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("task panicked",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"panic", fmt.Sprint(rec))
		}
	}()

	if err := task.Execute(r.ctx); err != nil {
		r.errHandler(task, err)
	}
}
