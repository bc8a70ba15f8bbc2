package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// CursorColor is the badge color viewers render for agent cursors.
const CursorColor = "#333"

// ErrActive is returned by Manager.Begin while another session is running.
// Callers should stop the current session first or simply wait.
var ErrActive = errors.New("an AI session is already active; stop the running AI before starting a new one")

// AgentSession is the live state of one drawing agent: its identity, display
// name, global cursor position and the fixed coordinate offset assigned at
// start. The offset never changes for the lifetime of the session, so a
// session's strokes can be analyzed in its own local frame afterwards.
//
// Values returned by the Manager are snapshots; the Manager owns the
// authoritative state.
type AgentSession struct {
	ID      string
	Name    string
	X       float64
	Y       float64
	OffsetX float64
	OffsetY float64
	Color   string
}

// Local returns the cursor position in the session's local frame.
func (s AgentSession) Local() (float64, float64) {
	return s.X - s.OffsetX, s.Y - s.OffsetY
}

// Manager owns all live sessions and their pending directives. It is safe for
// concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*AgentSession
	pending  map[string]string
}

// NewManager constructs an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*AgentSession),
		pending:  make(map[string]string),
	}
}

// Begin admits the session, or returns ErrActive while any session is live.
// A missing cursor color falls back to CursorColor.
func (m *Manager) Begin(s AgentSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) > 0 {
		return ErrActive
	}
	if s.Color == "" {
		s.Color = CursorColor
	}
	m.sessions[s.ID] = &s
	return nil
}

// Get returns a snapshot of the session, if it is still live.
func (m *Manager) Get(id string) (AgentSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return AgentSession{}, false
	}
	return *s, true
}

// SetCursor moves the session's global cursor. It reports false when the
// session has been removed, so a replay in flight can notice the stop.
func (m *Manager) SetCursor(id string, x, y float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.X, s.Y = x, y
	return true
}

// Remove drops the session and any pending directive for it.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	delete(m.pending, id)
	return true
}

// RemoveByName drops every session with the display name and returns the
// removed ids.
func (m *Manager) RemoveByName(name string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []string
	for id, s := range m.sessions {
		if s.Name == name {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		delete(m.sessions, id)
		delete(m.pending, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns a copy of all live sessions keyed by id.
func (m *Manager) Snapshot() map[string]AgentSession {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]AgentSession, len(m.sessions))
	for id, s := range m.sessions {
		out[id] = *s
	}
	return out
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// OthersSummary renders the cursors of every other session in the local frame
// given by (ox, oy), for inclusion in a generator prompt. With no other
// sessions it returns "none".
func (m *Manager) OthersSummary(exceptID string, ox, oy float64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		if id != exceptID {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "none"
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		s := m.sessions[id]
		parts = append(parts, fmt.Sprintf("%s at (%.0f,%.0f)", s.Name, s.X-ox, s.Y-oy))
	}
	return strings.Join(parts, "; ")
}

// SetPending stores a one-shot directive for every live session with the
// display name, replacing any unconsumed one. It reports whether at least one
// session matched.
func (m *Manager) SetPending(name, message string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := false
	for id, s := range m.sessions {
		if s.Name == name {
			m.pending[id] = message
			matched = true
		}
	}
	return matched
}

// ConsumePending returns and clears the session's pending directive. Each
// directive is delivered at most once.
func (m *Manager) ConsumePending(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.pending[id]
	if !ok {
		return "", false
	}
	delete(m.pending, id)
	return msg, true
}
