package stores

// TaskStore is the per-agent registry of tasks keyed by task id.  It is
// intentionally a best-effort, single-process memory store: a restart clears
// it.  The built-in implementation serializes concurrent mutations of the
// same task with a per-task mutex and evicts idle tasks after a TTL so the
// map cannot grow without bound.

import (
	"sync"
	"time"

	"github.com/verdantlabs/agora/pkg/a2a"
)

type TaskStore interface {
	// Acquire returns the task for id, creating it in state `submitted` when
	// absent, with the entry's mutex held.  The returned release func must be
	// called once mutation is done.  Two concurrent acquires for the same id
	// serialize; different ids do not interfere.
	Acquire(id, sessionID string) (*a2a.Task, func())

	// Get returns a snapshot of the task, or false when unknown.
	Get(id string) (*a2a.Task, bool)

	// Len reports how many tasks are currently retained.
	Len() int
}

type taskEntry struct {
	mu        sync.Mutex
	task      *a2a.Task
	touchedAt time.Time
}

// InMemoryTaskStore is the default TaskStore implementation.
type InMemoryTaskStore struct {
	mu      sync.RWMutex
	entries map[string]*taskEntry
	ttl     time.Duration
	done    chan struct{}
}

// DefaultTaskTTL is how long an untouched task survives before eviction.
const DefaultTaskTTL = 24 * time.Hour

func NewInMemoryTaskStore() *InMemoryTaskStore {
	store := &InMemoryTaskStore{
		entries: make(map[string]*taskEntry),
		ttl:     DefaultTaskTTL,
		done:    make(chan struct{}),
	}

	go store.cleanupExpired()

	return store
}

func (s *InMemoryTaskStore) Acquire(id, sessionID string) (*a2a.Task, func()) {
	s.mu.Lock()
	entry, ok := s.entries[id]

	if !ok {
		entry = &taskEntry{task: a2a.NewTask(id, sessionID)}
		s.entries[id] = entry
	}

	entry.touchedAt = time.Now()
	s.mu.Unlock()

	entry.mu.Lock()
	return entry.task, entry.mu.Unlock
}

func (s *InMemoryTaskStore) Get(id string) (*a2a.Task, bool) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return snapshot(entry.task), true
}

func (s *InMemoryTaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Cleanup drops every task idle for longer than the TTL.
func (s *InMemoryTaskStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl)

	for id, entry := range s.entries {
		if entry.touchedAt.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}

// Close stops the background eviction loop.
func (s *InMemoryTaskStore) Close() {
	close(s.done)
}

func (s *InMemoryTaskStore) cleanupExpired() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.done:
			return
		}
	}
}

// snapshot copies the task so readers never observe a concurrent append.
func snapshot(task *a2a.Task) *a2a.Task {
	cp := *task
	cp.History = make([]a2a.Message, len(task.History))
	copy(cp.History, task.History)
	return &cp
}
