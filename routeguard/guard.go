package routeguard

import (
	"context"
	"time"

	"github.com/NexoraTechHQ/nexora-sub000/session"
	"github.com/NexoraTechHQ/nexora-sub000/tokenstore"
	"github.com/pkg/errors"
)

// defaultMinLoading is the minimum time the loading indicator stays up so a
// fast session check does not flash it.
const defaultMinLoading = 300 * time.Millisecond

// Result is the guard's verdict for one protected page.
type Result struct {
	Authorized bool
	Session    session.Snapshot
}

// Guard gates protected content behind two signals: a synchronous look at
// the token store (a render blocking heuristic only, never a correctness
// source) and the authoritative session check. It resolves only once both
// the minimum loading duration and the real check have finished.
type Guard struct {
	store      tokenstore.Store
	sessions   *session.Service
	minLoading time.Duration
}

// Option defines a function type to modify the Guard instance.
type Option func(*Guard)

// WithMinLoading overrides the minimum loading indicator duration.
func WithMinLoading(d time.Duration) Option {
	return func(g *Guard) {
		g.minLoading = d
	}
}

// New creates a Guard over the given store and session service.
func New(store tokenstore.Store, sessions *session.Service, options ...Option) (*Guard, error) {
	if store == nil {
		return nil, errors.New("[routeguard.New] store is required")
	}
	if sessions == nil {
		return nil, errors.New("[routeguard.New] session service is required")
	}

	guard := &Guard{
		store:      store,
		sessions:   sessions,
		minLoading: defaultMinLoading,
	}

	for _, opt := range options {
		opt(guard)
	}

	return guard, nil
}

// Resolve blocks until both the minimum indicator duration and the real
// session check have resolved. An unauthenticated result yields no content
// and no redirect: navigation after a failed check is owned by the session
// state manager, and the guard must not trigger it a second time.
func (g *Guard) Resolve(ctx context.Context) (Result, error) {
	timer := time.NewTimer(g.minLoading)
	defer timer.Stop()

	// Heuristic fast path: with nothing stored locally there is no session
	// to confirm. A present token set still needs the real check.
	hasLocal := g.store.Get() != nil

	checked := make(chan session.Snapshot, 1)
	go func() {
		snap := g.sessions.Initialize()
		if !snap.IsAuthenticated && hasLocal && snap.Tokens != nil && snap.Tokens.RefreshToken != "" {
			if _, err := g.sessions.Refresh(ctx); err == nil {
				snap = g.sessions.Initialize()
			}
		}
		checked <- snap
	}()

	var snap session.Snapshot
	select {
	case snap = <-checked:
	case <-ctx.Done():
		return Result{}, errors.Wrap(ctx.Err(), "[Guard.Resolve] canceled")
	}

	select {
	case <-timer.C:
	case <-ctx.Done():
		return Result{}, errors.Wrap(ctx.Err(), "[Guard.Resolve] canceled")
	}

	return Result{Authorized: snap.IsAuthenticated, Session: snap}, nil
}
