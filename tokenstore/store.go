package tokenstore

import (
	"time"

	"github.com/NexoraTechHQ/nexora-sub000/users"
)

// Tokens is the credential set for the current session. ExpiresAt is an
// absolute instant, not a duration.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Store persists the current session's credentials and profile across
// restarts of the console. Implementations must fail safe on reads:
// unavailable or malformed storage reads as absent (nil), never an error,
// so callers always have a well defined "no session" fallback. The session
// service is the only writer.
type Store interface {
	Get() *Tokens
	Set(tokens Tokens) error
	Clear()
	GetUser() *users.User
	SetUser(user users.User) error
}
