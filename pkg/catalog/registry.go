package catalog

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/verdantlabs/agora/pkg/a2a"
)

/*
Registry holds the cards of every marketplace agent that registered itself.
Name collisions are resolved last-write-wins: a newly registered card with a
known name replaces the cached entry.
*/
type Registry struct {
	mu     sync.RWMutex
	agents map[string]a2a.AgentCard
}

func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]a2a.AgentCard),
	}
}

func (registry *Registry) AddAgent(card a2a.AgentCard) {
	log.Info("adding agent to catalog", "name", card.Name)

	registry.mu.Lock()
	registry.agents[card.Name] = card
	registry.mu.Unlock()
}

// RemoveAgent drops the named card, reporting whether it was present.
func (registry *Registry) RemoveAgent(name string) bool {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	_, ok := registry.agents[name]
	delete(registry.agents, name)

	return ok
}

func (registry *Registry) GetAgent(name string) (a2a.AgentCard, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	card, ok := registry.agents[name]
	return card, ok
}

func (registry *Registry) GetAgents() []a2a.AgentCard {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	agents := make([]a2a.AgentCard, 0, len(registry.agents))

	for _, card := range registry.agents {
		agents = append(agents, card)
	}

	return agents
}
