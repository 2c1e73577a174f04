package stores

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdantlabs/agora/pkg/a2a"
)

func TestAcquireCreatesSubmittedTask(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()

	task, release := store.Acquire("task-1", "session-1")
	release()

	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "session-1", task.SessionID)
	assert.Equal(t, a2a.TaskStateSubmitted, task.Status.State)
	assert.Equal(t, 1, store.Len())
}

func TestAcquireReturnsExistingTask(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()

	task, release := store.Acquire("task-1", "session-1")
	task.AddMessage(a2a.NewTextMessage(a2a.RoleUser, "hi"))
	release()

	// The session id of the original task wins on reacquire.
	again, release := store.Acquire("task-1", "other-session")
	defer release()

	assert.Equal(t, "session-1", again.SessionID)
	require.Len(t, again.History, 1)
	assert.Equal(t, 1, store.Len())
}

func TestGetReturnsSnapshot(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()

	task, release := store.Acquire("task-1", "session-1")
	task.AddMessage(a2a.NewTextMessage(a2a.RoleUser, "hi"))
	release()

	snap, ok := store.Get("task-1")
	require.True(t, ok)

	// Mutating the snapshot must not leak into the store.
	snap.AddMessage(a2a.NewTextMessage(a2a.RoleAgent, "stray"))

	fresh, ok := store.Get("task-1")
	require.True(t, ok)
	assert.Len(t, fresh.History, 1)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConcurrentAppendsSerialize(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()

	const writers = 20

	var wg sync.WaitGroup

	for i := 0; i < writers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			task, release := store.Acquire("task-1", "session-1")
			defer release()

			task.AddMessage(a2a.NewTextMessage(a2a.RoleUser, "turn"))
			task.AddMessage(a2a.NewTextMessage(a2a.RoleAgent, "reply"))
		}()
	}

	wg.Wait()

	snap, ok := store.Get("task-1")
	require.True(t, ok)

	// Each writer appended an intact pair; nothing interleaved or was lost.
	require.Len(t, snap.History, writers*2)
	assert.Equal(t, 1, store.Len())
}

func TestCleanupEvictsIdleTasks(t *testing.T) {
	store := NewInMemoryTaskStore()
	defer store.Close()

	store.ttl = 10 * time.Millisecond

	_, release := store.Acquire("stale", "session-1")
	release()

	time.Sleep(20 * time.Millisecond)

	_, release = store.Acquire("fresh", "session-2")
	release()

	store.Cleanup()

	assert.Equal(t, 1, store.Len())

	_, ok := store.Get("stale")
	assert.False(t, ok)

	_, ok = store.Get("fresh")
	assert.True(t, ok)
}
