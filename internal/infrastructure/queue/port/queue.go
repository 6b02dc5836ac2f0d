package port

import (
	"context"
	"time"
)

// Task is a background job: a stable type name plus an opaque payload.
// Payload encoding is the producer's concern; handlers decode their own.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes one task. A non-nil error requests a retry per the
// backend's policy, so handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption tunes how a task is queued. Zero values mean "backend
// default".
type EnqueueOption struct {
	Queue     string        // logical queue name
	ProcessIn time.Duration // delay before the task becomes runnable
	MaxRetry  int           // retry budget before the task is parked
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server consumes queued tasks. Run blocks until the context is canceled,
// then drains in-flight handlers before returning.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
}
