package session

import (
	"log/slog"
	"sync"

	"github.com/me/heroconsole/pkg/model"
)

// State is the authentication state every page reads before rendering.
type State struct {
	Token         string
	Authenticated bool
	Role          string
}

// IsAdmin reports whether the decoded role is the admin role.
func (s State) IsAdmin() bool {
	return s.Authenticated && s.Role == model.RoleAdminClaim
}

// stateFor derives the state implied by a stored token.
// A token that cannot be decoded still counts as authenticated.
func stateFor(token string) State {
	if token == "" {
		return State{}
	}
	return State{Token: token, Authenticated: true, Role: DecodeRole(token)}
}

// Manager owns the session state and notifies subscribers when it changes.
// It also implements CredentialStore, so an API client given a Manager routes
// its 401 purge through Logout.
type Manager struct {
	mu     sync.RWMutex
	store  CredentialStore
	state  State
	subs   map[int]func(State)
	nextID int
	logger *slog.Logger
}

// NewManager restores the state from whatever credential store holds.
func NewManager(store CredentialStore, logger *slog.Logger) *Manager {
	m := &Manager{
		store:  store,
		subs:   make(map[int]func(State)),
		logger: logger.With("component", "session"),
	}
	m.state = stateFor(store.Token())
	return m
}

// Current returns the present state.
func (m *Manager) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Login persists token and moves to Authenticated(role).
func (m *Manager) Login(token string) error {
	if err := m.store.SetToken(token); err != nil {
		return err
	}
	st := stateFor(token)
	m.set(st)
	m.logger.Info("logged in", "role", st.Role)
	return nil
}

// Logout clears the stored credential and moves to Anonymous.
// Subscribers are notified even if clearing the store fails.
func (m *Manager) Logout() error {
	err := m.store.Clear()
	m.set(State{})
	m.logger.Info("logged out")
	return err
}

// Subscribe registers fn for state changes and returns a function that removes it.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) set(st State) {
	m.mu.Lock()
	m.state = st
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// Token implements CredentialStore.
func (m *Manager) Token() string {
	return m.Current().Token
}

// SetToken implements CredentialStore.
func (m *Manager) SetToken(token string) error {
	return m.Login(token)
}

// Clear implements CredentialStore.
func (m *Manager) Clear() error {
	return m.Logout()
}
