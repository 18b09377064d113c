package task

import (
	"context"

	"github.com/google/uuid"
)

// Task represents a unit of work processed by a Runner.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier, used in logs
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// TaskQueueReader provides read-only access to the task channel
// allowing a consumer to take tasks without the ability to enqueue.
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue.
type TaskQueueWriter interface {
	// Enqueue adds a task without blocking.
	// Returns an error if the queue is full or closed.
	Enqueue(task Task) error

	// EnqueueContext adds a task, waiting for space until ctx is done
	// or the queue is closed.
	EnqueueContext(ctx context.Context, task Task) error

	// Close prevents further task submission
	Close()
}

// FuncTask adapts a function to the Task interface.
type FuncTask struct {
	id       uuid.UUID
	taskType string
	fn       func(ctx context.Context) error
}

// NewFuncTask creates a task of the given type running fn.
func NewFuncTask(taskType string, fn func(ctx context.Context) error) *FuncTask {
	return &FuncTask{
		id:       uuid.New(),
		taskType: taskType,
		fn:       fn,
	}
}

// ID implements Task.
func (t *FuncTask) ID() uuid.UUID {
	return t.id
}

// Type implements Task.
func (t *FuncTask) Type() string {
	return t.taskType
}

// Execute implements Task.
func (t *FuncTask) Execute(ctx context.Context) error {
	return t.fn(ctx)
}
