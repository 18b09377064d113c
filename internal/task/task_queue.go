package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by the TaskQueue
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// TaskQueue implements a buffered FIFO task queue that satisfies both
// TaskQueueReader and TaskQueueWriter. The task channel itself is never
// closed; closure is signalled through Done so that blocked writers can
// give up safely.
type TaskQueue struct {
	tasks     chan Task
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// NewTaskQueue creates a new task queue with the specified buffer size
func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskQueue{
		tasks:  make(chan Task, size),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Enqueue adds a task to the queue for processing
// Returns an error if the queue is full or closed
func (q *TaskQueue) Enqueue(task Task) error {
	if q.isClosed() {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		q.logEnqueued(task)
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.tasks))
	}
}

// EnqueueContext adds a task, blocking while the queue is full.
func (q *TaskQueue) EnqueueContext(ctx context.Context, task Task) error {
	if q.isClosed() {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		q.logEnqueued(task)
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close prevents further task submission. Tasks already buffered remain
// readable from GetChannel.
func (q *TaskQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
		q.logger.Debug("task queue closed")
	})
}

// Done is closed once the queue has been closed.
func (q *TaskQueue) Done() <-chan struct{} {
	return q.done
}

// GetChannel returns a read-only channel for consuming tasks
func (q *TaskQueue) GetChannel() <-chan Task {
	return q.tasks
}

// Len returns the number of buffered tasks.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

func (q *TaskQueue) isClosed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

func (q *TaskQueue) logEnqueued(task Task) {
	q.logger.Debug("task enqueued",
		"task_id", task.ID(),
		"task_type", task.Type(),
		"queue_len", len(q.tasks),
		"queue_cap", cap(q.tasks))
}
