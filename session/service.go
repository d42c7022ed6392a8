package session

import (
	"context"
	"sync"
	"time"

	"github.com/NexoraTechHQ/nexora-sub000/tokenstore"
	"github.com/NexoraTechHQ/nexora-sub000/users"
	"github.com/pkg/errors"
)

// Authority is the remote issuing service that exchanges credentials, or a
// refresh token, for a new token set. Implementations signal a rejection by
// wrapping InvalidCredentialsErr (login) or RefreshRejectedErr (refresh);
// anything else is a transport failure.
type Authority interface {
	Login(ctx context.Context, username, password string, rememberMe bool) (*users.User, *tokenstore.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*tokenstore.Tokens, error)
}

// defaultSkew is the margin subtracted from token expiry so that a
// check-then-use race cannot present a just-expired token.
const defaultSkew = 30 * time.Second

// Snapshot is the session state read back from the store on startup.
// IsAuthenticated reflects IsValid at read time; validity is advisory and
// can lapse afterwards.
type Snapshot struct {
	User            *users.User
	Tokens          *tokenstore.Tokens
	IsAuthenticated bool
}

// Service owns the session lifecycle. It is the only writer of the token
// store and the only component that talks to the issuing authority.
type Service struct {
	store     tokenstore.Store
	authority Authority
	skew      time.Duration
	nowTime   func() time.Time // nowTime function (injectable for testing)

	mu       sync.Mutex
	inflight *refreshCall
}

// refreshCall is one shared in-flight refresh. Late callers wait on done
// instead of issuing a duplicate authority call.
type refreshCall struct {
	done   chan struct{}
	tokens *tokenstore.Tokens
	err    error
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithSkew overrides the validity skew buffer.
func WithSkew(skew time.Duration) ServiceOption {
	return func(s *Service) {
		s.skew = skew
	}
}

// NewService initializes a new session Service with required dependencies.
func NewService(store tokenstore.Store, authority Authority, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("[NewService] store is required")
	}
	if authority == nil {
		return nil, errors.New("[NewService] authority is required")
	}

	service := &Service{
		store:     store,
		authority: authority,
		skew:      defaultSkew,
		nowTime:   time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Login exchanges credentials for a token set and persists both the profile
// and the tokens. rememberMe selects the long session window on the issued
// tokens; it is decided here and never re-evaluated afterwards.
func (s *Service) Login(ctx context.Context, username, password string, rememberMe bool) (*users.User, *tokenstore.Tokens, error) {
	user, tokens, err := s.authority.Login(ctx, username, password, rememberMe)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Service.Login] authority")
	}
	if user == nil || tokens == nil {
		return nil, nil, errors.New("[Service.Login] authority returned an incomplete session")
	}

	if err := s.store.SetUser(*user); err != nil {
		return nil, nil, errors.Wrap(err, "[Service.Login] persist user")
	}
	if err := s.store.Set(*tokens); err != nil {
		// Never leave a profile stored without tokens.
		s.store.Clear()
		return nil, nil, errors.Wrap(err, "[Service.Login] persist tokens")
	}

	return user, tokens, nil
}

// Logout clears the stored session unconditionally. It never fails.
func (s *Service) Logout() {
	s.store.Clear()
}

// Refresh exchanges the stored refresh token for a new token set and
// persists the result. Concurrent callers are coalesced onto a single
// in-flight exchange so a refresh storm reaches the authority once and
// token sets cannot be replaced out of order.
func (s *Service) Refresh(ctx context.Context) (*tokenstore.Tokens, error) {
	s.mu.Lock()
	call := s.inflight
	if call == nil {
		stored := s.store.Get()
		if stored == nil || stored.RefreshToken == "" {
			s.mu.Unlock()
			return nil, NoRefreshTokenErr
		}

		call = &refreshCall{done: make(chan struct{})}
		s.inflight = call
		s.mu.Unlock()

		// The exchange runs detached from every caller's cancellation: its
		// result is shared, so one caller's timeout must not poison it.
		go s.runRefresh(context.WithoutCancel(ctx), call, stored.RefreshToken)
	} else {
		s.mu.Unlock()
	}

	select {
	case <-call.done:
		return call.tokens, call.err
	case <-ctx.Done():
		// Abandoning the wait must not disturb the shared refresh.
		return nil, errors.Wrap(ctx.Err(), "[Service.Refresh] canceled while waiting")
	}
}

func (s *Service) runRefresh(ctx context.Context, call *refreshCall, refreshToken string) {
	tokens, err := s.authority.Refresh(ctx, refreshToken)
	if err != nil {
		tokens, err = nil, errors.Wrap(err, "[Service.Refresh] authority")
	} else if persistErr := s.store.Set(*tokens); persistErr != nil {
		tokens, err = nil, errors.Wrap(persistErr, "[Service.Refresh] persist tokens")
	}

	call.tokens, call.err = tokens, err
	s.mu.Lock()
	s.inflight = nil
	s.mu.Unlock()
	close(call.done)
}

// IsValid reports whether a token set exists and has not entered the skew
// window before its expiry. This is a point-in-time, advisory check, not a
// guarantee: a 401 from the server is authoritative over it.
func (s *Service) IsValid() bool {
	tokens := s.store.Get()
	if tokens == nil {
		return false
	}
	return s.nowTime().Before(tokens.ExpiresAt.Add(-s.skew))
}

// Initialize reads the stored session without touching the network. It is
// the bootstrap used on every fresh start of the console.
func (s *Service) Initialize() Snapshot {
	tokens := s.store.Get()
	user := s.store.GetUser()
	return Snapshot{
		User:            user,
		Tokens:          tokens,
		IsAuthenticated: user != nil && tokens != nil && s.IsValid(),
	}
}

// Tokens returns the currently stored token set, if any.
func (s *Service) Tokens() *tokenstore.Tokens {
	return s.store.Get()
}
