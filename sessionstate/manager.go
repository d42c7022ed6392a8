package sessionstate

import (
	"context"
	"errors"
	"sync"

	"github.com/NexoraTechHQ/nexora-sub000/navigation"
	"github.com/NexoraTechHQ/nexora-sub000/session"
	"github.com/NexoraTechHQ/nexora-sub000/tokenstore"
	"github.com/NexoraTechHQ/nexora-sub000/users"
	"github.com/rs/zerolog"
)

// State is the session as the rest of the console sees it. Invariants:
// Authenticated implies both User and Tokens are set; User and Tokens are
// set and cleared together, never one without the other.
type State struct {
	User          *users.User
	Tokens        *tokenstore.Tokens
	Authenticated bool
	Loading       bool
	Err           string
}

// Listener receives every state transition.
type Listener func(State)

// Manager projects the session service as observable state and owns the
// initialize/login/logout entry points plus the unauthenticated redirect
// policy. Construct one per console instance; there is no package global,
// so tests build isolated managers per scenario.
type Manager struct {
	sessions *session.Service
	nav      navigation.Navigator
	log      zerolog.Logger

	mu        sync.Mutex
	state     State
	listeners []Listener
}

// Option defines a function type to modify the Manager instance.
type Option func(*Manager)

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a Manager. The state starts as loading until InitAuth
// resolves it.
func NewManager(sessions *session.Service, nav navigation.Navigator, options ...Option) (*Manager, error) {
	if sessions == nil {
		return nil, errors.New("[NewManager] session service is required")
	}
	if nav == nil {
		return nil, errors.New("[NewManager] navigator is required")
	}

	manager := &Manager{
		sessions: sessions,
		nav:      nav,
		log:      zerolog.Nop(),
		state:    State{Loading: true},
	}

	for _, opt := range options {
		opt(manager)
	}

	return manager, nil
}

// Snapshot returns the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers a listener notified on every subsequent transition.
func (m *Manager) Subscribe(listener Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// InitAuth bootstraps the session on startup: it reads the stored session
// and, when tokens exist but have gone stale, attempts one refresh. Any
// failure collapses to the unauthenticated state. Loading always ends.
func (m *Manager) InitAuth(ctx context.Context) {
	snap := m.sessions.Initialize()

	if snap.IsAuthenticated {
		m.setState(State{User: snap.User, Tokens: snap.Tokens, Authenticated: true})
		return
	}

	if snap.User != nil && snap.Tokens != nil && snap.Tokens.RefreshToken != "" {
		if tokens, err := m.sessions.Refresh(ctx); err == nil {
			m.setState(State{User: snap.User, Tokens: tokens, Authenticated: true})
			return
		}
		m.log.Debug().Msg("stored session could not be refreshed")
	}

	m.sessions.Logout()
	m.setState(State{})
}

// Login signs the user in. Failures are recorded on the state for inline
// rendering rather than returned, so a sign-in form can redisplay them.
func (m *Manager) Login(ctx context.Context, username, password string, rememberMe bool) {
	m.setState(State{Loading: true})

	user, tokens, err := m.sessions.Login(ctx, username, password, rememberMe)
	if err != nil {
		m.log.Warn().Err(err).Msg("login failed")
		m.setState(State{Err: loginErrorMessage(err)})
		return
	}

	m.setState(State{User: user, Tokens: tokens, Authenticated: true})
	m.nav.NavigateTo(navigation.RouteDashboard)
}

// Logout tears the session down and returns to sign in.
func (m *Manager) Logout() {
	m.sessions.Logout()
	m.setState(State{})
	m.nav.NavigateTo(navigation.RouteSignIn)
}

// ClearError clears only the error field.
func (m *Manager) ClearError() {
	m.mu.Lock()
	next := m.state
	m.mu.Unlock()

	next.Err = ""
	m.setState(next)
}

// setState applies a transition, notifies listeners, and re-runs the
// redirect policy.
func (m *Manager) setState(next State) {
	m.mu.Lock()
	m.state = next
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	for _, listener := range listeners {
		listener(next)
	}
	m.applyRedirectPolicy(next)
}

// applyRedirectPolicy sends the user to sign in whenever the resolved state
// is "finished loading and not authenticated" on a protected surface.
func (m *Manager) applyRedirectPolicy(state State) {
	if state.Loading || state.Authenticated {
		return
	}
	if navigation.IsPublic(m.nav.CurrentPath()) {
		return
	}
	m.nav.NavigateTo(navigation.RouteSignIn)
}

func loginErrorMessage(err error) string {
	if errors.Is(err, session.InvalidCredentialsErr) {
		return "Invalid username or password"
	}
	return "Sign in failed. Please try again."
}
