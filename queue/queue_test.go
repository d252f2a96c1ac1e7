package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/anverma/filecab/queue"
)

func TestMemory_EnqueueAndRun(t *testing.T) {
	q := queue.NewMemory(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []string
	done := make(chan struct{})

	go q.Run(ctx, func(_ context.Context, job queue.Job) error {
		mu.Lock()
		seen = append(seen, job.UserID)
		if len(seen) == 2 {
			close(done)
		}
		mu.Unlock()
		return nil
	})

	assert.NoError(t, q.Enqueue(ctx, "user-1"))
	assert.NoError(t, q.Enqueue(ctx, "user-2"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs not consumed in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"user-1", "user-2"}, seen)
}

func TestMemory_EnqueueFullDropsJob(t *testing.T) {
	q := queue.NewMemory(1)
	ctx := context.Background()

	assert.NoError(t, q.Enqueue(ctx, "user-1"))
	assert.Error(t, q.Enqueue(ctx, "user-2"))
}

func TestMemory_EnqueueCanceledContext(t *testing.T) {
	q := queue.NewMemory(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.Enqueue(ctx, "user-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemory_RunStopsOnCancel(t *testing.T) {
	q := queue.NewMemory(1)
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		q.Run(ctx, func(context.Context, queue.Job) error { return nil })
		close(stopped)
	}()

	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}
