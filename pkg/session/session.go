// Package session tracks whether the admin session credential is still
// accepted by the backend. The HTTP client reports expiry here and every
// screen subscribes, so navigation to the login path happens in one place.
package session

import "sync"

// LoginPath is where the dashboard sends the admin once the session is gone.
const LoginPath = "/auth/login"

// State is the validity of the current session credential
type State int

const (
	StateValid State = iota
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Event is broadcast to subscribers on every state change
type Event struct {
	State     State
	LoginPath string
	Reason    string
}

// Manager owns the observable session state
type Manager struct {
	mu          sync.Mutex
	state       State
	reason      string
	nextID      int
	subscribers map[int]chan Event
}

// NewManager creates a manager in the valid state
func NewManager() *Manager {
	return &Manager{
		subscribers: make(map[int]chan Event),
	}
}

// State returns the current state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reason returns why the session expired, if it did
func (m *Manager) Reason() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reason
}

// Subscribe registers a listener. The returned function unsubscribes and
// closes the channel.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan Event, 1)
	m.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if sub, ok := m.subscribers[id]; ok {
				delete(m.subscribers, id)
				close(sub)
			}
		})
	}
}

// Expire marks the session as expired. Only the first call after a valid
// period notifies subscribers.
func (m *Manager) Expire(reason string) {
	m.transition(StateExpired, reason)
}

// Renew marks the session valid again, e.g. after a new token is configured
func (m *Manager) Renew() {
	m.transition(StateValid, "")
}

func (m *Manager) transition(to State, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == to {
		return
	}
	m.state = to
	m.reason = reason

	event := Event{State: to, LoginPath: LoginPath, Reason: reason}
	for _, ch := range m.subscribers {
		// Drop a stale undelivered event so the latest state always lands
		select {
		case <-ch:
		default:
		}
		ch <- event
	}
}
