package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdantlabs/agora/pkg/a2a"
)

// cardServer serves an agent card at the well-known path.  The up flag lets
// tests flip the agent dead mid-run.
func cardServer(t *testing.T, name string, up *atomic.Bool) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if up != nil && !up.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		require.Equal(t, a2a.WellKnownCardPath, r.URL.Path)

		json.NewEncoder(w).Encode(a2a.AgentCard{
			Name:    name,
			URL:     "http://" + r.Host,
			Version: "1.0.0",
		})
	}))
}

func TestDiscoverPartialSuccess(t *testing.T) {
	greeting := cardServer(t, "GreetingAgent", nil)
	defer greeting.Close()

	telltime := cardServer(t, "TellTimeAgent", nil)
	defer telltime.Close()

	svc := NewService()

	found := svc.Discover(context.Background(), []string{
		greeting.URL,
		"http://127.0.0.1:1", // nothing listens here
		telltime.URL,
	})

	// The dead URL is skipped, the rest land in the cache.
	assert.Len(t, found, 2)
	assert.Len(t, svc.GetAllAgents(), 2)
	assert.Len(t, svc.GetAvailableAgents(), 2)

	agent, ok := svc.GetAgent("GreetingAgent")
	require.True(t, ok)
	assert.True(t, agent.IsAvailable)
	assert.False(t, agent.LastChecked.IsZero())
}

func TestDiscoverIsIdempotent(t *testing.T) {
	greeting := cardServer(t, "GreetingAgent", nil)
	defer greeting.Close()

	svc := NewService()

	svc.Discover(context.Background(), []string{greeting.URL})
	svc.Discover(context.Background(), []string{greeting.URL})

	assert.Len(t, svc.GetAllAgents(), 1)
}

func TestRefreshMarksUnavailableInPlace(t *testing.T) {
	var up atomic.Bool
	up.Store(true)

	greeting := cardServer(t, "GreetingAgent", &up)
	defer greeting.Close()

	svc := NewService()
	svc.Discover(context.Background(), []string{greeting.URL})

	up.Store(false)
	svc.Refresh(context.Background())

	// Still known, no longer available; the card survives the outage.
	agent, ok := svc.GetAgent("GreetingAgent")
	require.True(t, ok)
	assert.False(t, agent.IsAvailable)
	assert.Equal(t, "GreetingAgent", agent.Card.Name)
	assert.Empty(t, svc.GetAvailableAgents())

	up.Store(true)
	svc.Refresh(context.Background())

	agent, ok = svc.GetAgent("GreetingAgent")
	require.True(t, ok)
	assert.True(t, agent.IsAvailable)
}

func TestAddAgent(t *testing.T) {
	greeting := cardServer(t, "GreetingAgent", nil)
	defer greeting.Close()

	svc := NewService()

	added := svc.AddAgent(context.Background(), greeting.URL)
	require.NotNil(t, added)
	assert.Equal(t, "GreetingAgent", added.Card.Name)

	// A probe failure yields nil, not an error, and leaves the cache alone.
	assert.Nil(t, svc.AddAgent(context.Background(), "http://127.0.0.1:1"))
	assert.Len(t, svc.GetAllAgents(), 1)
}

func TestRemoveAgent(t *testing.T) {
	greeting := cardServer(t, "GreetingAgent", nil)
	defer greeting.Close()

	svc := NewService()
	svc.Discover(context.Background(), []string{greeting.URL})

	assert.True(t, svc.RemoveAgent("GreetingAgent"))
	assert.False(t, svc.RemoveAgent("GreetingAgent"))
	assert.Empty(t, svc.GetAllAgents())
}

// Re-discovering and adding agents while the liveness loop refreshes them
// must not touch shared entries outside the lock; run with -race.
func TestDiscoverConcurrentWithRefresh(t *testing.T) {
	var up atomic.Bool
	up.Store(true)

	greeting := cardServer(t, "GreetingAgent", &up)
	defer greeting.Close()

	svc := NewService()
	svc.Discover(context.Background(), []string{greeting.URL})

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func(flip bool) {
			defer wg.Done()

			up.Store(flip)
			svc.Refresh(context.Background())
		}(i%2 == 0)

		wg.Add(1)

		go func() {
			defer wg.Done()

			found := svc.Discover(context.Background(), []string{greeting.URL})

			for _, agent := range found {
				_ = agent.IsAvailable
				_ = agent.LastChecked
			}

			if added := svc.AddAgent(context.Background(), greeting.URL); added != nil {
				_ = added.IsAvailable
			}
		}()
	}

	wg.Wait()

	assert.Len(t, svc.GetAllAgents(), 1)
}

func TestStartStopIdempotent(t *testing.T) {
	svc := NewService()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.Start(ctx)
	svc.Start(ctx) // second call is a no-op
	svc.Stop()
	svc.Stop() // stopping twice must not panic
}
