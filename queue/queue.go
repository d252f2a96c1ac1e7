// Package queue provides an in-process job queue for post-registration
// side effects such as sending a welcome email.
package queue

import (
	"context"
	"fmt"
	"log/slog"
)

// Job is a unit of downstream work keyed by the user it concerns.
type Job struct {
	UserID string
}

// Memory is a buffered in-process queue. Enqueue never blocks: when the
// buffer is full the job is dropped and reported, since registration must
// not stall on downstream processing.
type Memory struct {
	jobs chan Job
}

// NewMemory creates a queue with the given buffer capacity.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 64
	}
	return &Memory{jobs: make(chan Job, capacity)}
}

func (q *Memory) Enqueue(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}

	select {
	case q.jobs <- Job{UserID: userID}:
		return nil
	default:
		return fmt.Errorf("enqueue: queue full, dropping job for user %s", userID)
	}
}

// Run consumes jobs until ctx is cancelled, invoking handle for each. A
// failed job is logged and skipped; there are no retries.
func (q *Memory) Run(ctx context.Context, handle func(context.Context, Job) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			if err := handle(ctx, job); err != nil {
				slog.Warn("job failed", "userId", job.UserID, "err", err)
			}
		}
	}
}
