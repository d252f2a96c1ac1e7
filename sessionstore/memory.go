package sessionstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anverma/filecab"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process session store with real TTL semantics. Expired
// entries are deleted lazily on read; there is no sweeper. Suitable for
// tests and single-node development.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *Memory) SetWithTTL(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *Memory) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", fmt.Errorf("get session: %w", filecab.ErrNotFound)
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", fmt.Errorf("get session: %w", filecab.ErrNotFound)
	}

	return entry.value, nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
