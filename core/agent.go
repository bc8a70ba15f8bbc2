package core

import (
	"errors"
	"time"
)

// ErrAgentNotFound is returned by AgentStore.Get for unknown agent ids.
// Callers should instruct the agent to register again.
var ErrAgentNotFound = errors.New("agent not found")

// RegisteredAgent is a durable (process-lifetime) identity an autonomous agent
// obtains once and reuses across any number of drawing sessions. Registration
// survives session stop; only a restart clears it.
type RegisteredAgent struct {
	ID        string    `json:"agent_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AgentStore manages registered agent identities.
//
// Implementations must be safe for concurrent use. Empty or whitespace-only
// names are registered under the fallback name "Agent".
type AgentStore interface {
	// Register creates a new identity and returns it.
	Register(name string) (*RegisteredAgent, error)

	// Get returns the identity for id, or ErrAgentNotFound.
	Get(id string) (*RegisteredAgent, error)
}
