package registry

import (
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/drawboard/core"
)

// InMemoryStore is a volatile AgentStore implementation storing registered
// agents in a process local map. It is safe for concurrent access. Returned
// records are copies to prevent external mutation of internal state.
type InMemoryStore struct {
	mu     sync.RWMutex
	agents map[string]core.RegisteredAgent
}

// NewInMemoryStore constructs an empty in-memory agent store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{agents: make(map[string]core.RegisteredAgent)}
}

// Register creates a new identity under a fresh id. Empty or whitespace-only
// names fall back to "Agent".
func (s *InMemoryStore) Register(name string) (*core.RegisteredAgent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Agent"
	}

	agent := core.RegisteredAgent{
		ID:        core.NewID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.agents[agent.ID] = agent
	return &agent, nil
}

// Get returns a copy of the identity for id, or core.ErrAgentNotFound.
func (s *InMemoryStore) Get(id string) (*core.RegisteredAgent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agent, ok := s.agents[id]
	if !ok {
		return nil, core.ErrAgentNotFound
	}
	return &agent, nil
}

// Len reports the number of registered agents.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.agents)
}
