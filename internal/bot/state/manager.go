package state

import "sync"

// User states constants
const (
	None            = "none"
	WaitingForWater = "waiting_for_water"
)

// Manager tracks per-user conversation state
type Manager struct {
	userStates map[int64]string
	mu         sync.RWMutex
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		userStates: make(map[int64]string),
	}
}

// SetUserState sets the state for a user
func (m *Manager) SetUserState(userID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userStates[userID] = state
}

// GetUserState gets the state for a user
func (m *Manager) GetUserState(userID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.userStates[userID]; ok {
		return s
	}
	return None
}

// ClearUserState resets the user to the idle state
func (m *Manager) ClearUserState(userID int64) {
	m.SetUserState(userID, None)
}
