// ABOUTME: SessionManager keeps bounded per-session conversation history in memory
// ABOUTME: Oldest exchange pairs are evicted first once the history limit is reached
package core

import (
	"sync"

	"github.com/google/uuid"
	"github.com/harper/coursemate/internal/models"
)

// SessionManager is safe for concurrent use. Two queries racing on the same
// session id may both read the same history; the later append wins the slot.
type SessionManager struct {
	mu         sync.RWMutex
	sessions   map[string][]models.Exchange
	maxHistory int
}

// NewSessionManager creates a store that keeps at most maxHistory exchange pairs per session
func NewSessionManager(maxHistory int) *SessionManager {
	if maxHistory < 0 {
		maxHistory = 0
	}
	return &SessionManager{
		sessions:   make(map[string][]models.Exchange),
		maxHistory: maxHistory,
	}
}

// CreateSession registers a new empty session and returns its id
func (m *SessionManager) CreateSession() string {
	id := "session_" + uuid.New().String()

	m.mu.Lock()
	m.sessions[id] = nil
	m.mu.Unlock()

	return id
}

// GetHistory returns a copy of the session's exchanges, oldest first. Unknown ids are empty.
func (m *SessionManager) GetHistory(id string) []models.Exchange {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.sessions[id]
	out := make([]models.Exchange, len(history))
	copy(out, history)
	return out
}

// AddExchange appends one user/assistant pair, creating the session if needed
func (m *SessionManager) AddExchange(id, userMessage, aiResponse string) {
	ex := models.NewExchange(userMessage, aiResponse)

	m.mu.Lock()
	defer m.mu.Unlock()

	history := append(m.sessions[id], ex)
	if over := len(history) - m.maxHistory; over > 0 {
		// Copy so the evicted prefix does not pin the old backing array
		history = append([]models.Exchange(nil), history[over:]...)
	}
	m.sessions[id] = history
}

// ClearSession discards a session's history
func (m *SessionManager) ClearSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// HasSession reports whether the id is known
func (m *SessionManager) HasSession(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[id]
	return ok
}

// SessionCount returns the number of live sessions
func (m *SessionManager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// MaxHistory returns the per-session exchange limit
func (m *SessionManager) MaxHistory() int {
	return m.maxHistory
}
