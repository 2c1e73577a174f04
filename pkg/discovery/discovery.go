package discovery

// Discovery maintains the client-side view of which agents exist and
// whether they currently answer.  Probing is best effort: a URL that fails
// is simply skipped on the first pass, and a known agent that stops
// answering is marked unavailable rather than forgotten, so capability
// metadata survives transient outages.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/verdantlabs/agora/pkg/a2a"
)

// DiscoveredAgent is one cache entry: the fetched card plus liveness state.
type DiscoveredAgent struct {
	Card        a2a.AgentCard `json:"card"`
	IsAvailable bool          `json:"isAvailable"`
	LastChecked time.Time     `json:"lastChecked"`

	probeURL string
}

const (
	DefaultProbeTimeout  = 10 * time.Second
	DefaultProbeInterval = 15 * time.Second
)

// Service probes agent base URLs for their cards and tracks liveness.  Each
// instance exclusively owns its cache; readers always get snapshots.
type Service struct {
	mu         sync.RWMutex
	agents     map[string]*DiscoveredAgent
	httpClient *http.Client
	interval   time.Duration
	done       chan struct{}
	started    bool
}

type ServiceOption func(*Service)

func WithProbeTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		s.httpClient.Timeout = timeout
	}
}

func WithProbeInterval(interval time.Duration) ServiceOption {
	return func(s *Service) {
		s.interval = interval
	}
}

func NewService(options ...ServiceOption) *Service {
	s := &Service{
		agents: make(map[string]*DiscoveredAgent),
		httpClient: &http.Client{
			Timeout: DefaultProbeTimeout,
		},
		interval: DefaultProbeInterval,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

/*
Discover probes every base URL for its agent card.  URLs that refuse the
connection, time out or return garbage are omitted from the result for this
pass; partial success is expected and normal.  Name collisions resolve
last-write-wins.
*/
func (s *Service) Discover(ctx context.Context, baseURLs []string) []DiscoveredAgent {
	found := make([]DiscoveredAgent, 0, len(baseURLs))

	for _, url := range baseURLs {
		card, err := s.fetchCard(ctx, url)

		if err != nil {
			log.Warn("agent discovery probe failed", "url", url, "error", err)
			continue
		}

		entry := &DiscoveredAgent{
			Card:        *card,
			IsAvailable: true,
			LastChecked: time.Now(),
			probeURL:    url,
		}

		// Copy while holding the lock; the refresh loop mutates entries in
		// place once Start is running.
		s.mu.Lock()
		s.agents[card.Name] = entry
		cp := *entry
		s.mu.Unlock()

		log.Info("discovered agent", "name", card.Name, "url", url)
		found = append(found, cp)
	}

	return found
}

/*
Refresh re-probes every known agent and updates IsAvailable/LastChecked in
place.  Agents are never removed here, only marked unavailable.
*/
func (s *Service) Refresh(ctx context.Context) {
	s.mu.RLock()
	names := make([]string, 0, len(s.agents))
	for name := range s.agents {
		names = append(names, name)
	}
	s.mu.RUnlock()

	for _, name := range names {
		s.mu.RLock()
		entry, ok := s.agents[name]
		s.mu.RUnlock()

		if !ok {
			continue
		}

		card, err := s.fetchCard(ctx, entry.probeURL)

		s.mu.Lock()
		entry, ok = s.agents[name]
		if !ok {
			s.mu.Unlock()
			continue
		}

		entry.LastChecked = time.Now()

		if err != nil {
			if entry.IsAvailable {
				log.Warn("agent became unavailable", "name", name, "error", err)
			}
			entry.IsAvailable = false
		} else {
			entry.IsAvailable = true
			entry.Card = *card
		}
		s.mu.Unlock()
	}
}

// AddAgent registers a URL outside the static registry.  It returns nil,
// not an error, when the URL does not answer the probe within the timeout.
func (s *Service) AddAgent(ctx context.Context, url string) *DiscoveredAgent {
	card, err := s.fetchCard(ctx, url)

	if err != nil {
		log.Warn("add agent probe failed", "url", url, "error", err)
		return nil
	}

	entry := &DiscoveredAgent{
		Card:        *card,
		IsAvailable: true,
		LastChecked: time.Now(),
		probeURL:    url,
	}

	s.mu.Lock()
	s.agents[card.Name] = entry
	cp := *entry
	s.mu.Unlock()

	return &cp
}

// RemoveAgent deregisters by name, reporting whether the agent was known.
func (s *Service) RemoveAgent(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.agents[name]
	delete(s.agents, name)

	return ok
}

// GetAgent returns a snapshot of the named entry.
func (s *Service) GetAgent(name string) (DiscoveredAgent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.agents[name]

	if !ok {
		return DiscoveredAgent{}, false
	}

	return *entry, true
}

// GetAllAgents returns a snapshot of every cache entry.
func (s *Service) GetAllAgents() []DiscoveredAgent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents := make([]DiscoveredAgent, 0, len(s.agents))

	for _, entry := range s.agents {
		agents = append(agents, *entry)
	}

	return agents
}

// GetAvailableAgents returns a snapshot of the entries that answered their
// most recent probe.
func (s *Service) GetAvailableAgents() []DiscoveredAgent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents := make([]DiscoveredAgent, 0, len(s.agents))

	for _, entry := range s.agents {
		if entry.IsAvailable {
			agents = append(agents, *entry)
		}
	}

	return agents
}

// Start launches the periodic liveness loop.  Calling Start twice is a
// no-op; Stop ends the loop cleanly.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Refresh(ctx)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	close(s.done)
	s.started = false
}

func (s *Service) fetchCard(ctx context.Context, baseURL string) (*a2a.AgentCard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+a2a.WellKnownCardPath, nil)

	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent card endpoint returned status %d", resp.StatusCode)
	}

	var card a2a.AgentCard

	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, err
	}

	if card.Name == "" {
		return nil, fmt.Errorf("agent card has no name")
	}

	return &card, nil
}
