package sessionfakes

import (
	"context"
	"sync/atomic"

	"github.com/NexoraTechHQ/nexora-sub000/session"
	"github.com/NexoraTechHQ/nexora-sub000/tokenstore"
	"github.com/NexoraTechHQ/nexora-sub000/users"
)

var _ session.Authority = (*FakeAuthority)(nil)

// FakeAuthority is a scriptable issuing authority for tests. Set the Func
// fields to control each exchange; call counters track how often the
// authority was actually reached.
type FakeAuthority struct {
	LoginFunc   func(ctx context.Context, username, password string, rememberMe bool) (*users.User, *tokenstore.Tokens, error)
	RefreshFunc func(ctx context.Context, refreshToken string) (*tokenstore.Tokens, error)

	loginCalls   int32
	refreshCalls int32
}

func NewFakeAuthority() *FakeAuthority {
	return &FakeAuthority{}
}

func (fa *FakeAuthority) Login(ctx context.Context, username, password string, rememberMe bool) (*users.User, *tokenstore.Tokens, error) {
	atomic.AddInt32(&fa.loginCalls, 1)
	if fa.LoginFunc == nil {
		return nil, nil, session.InvalidCredentialsErr
	}
	return fa.LoginFunc(ctx, username, password, rememberMe)
}

func (fa *FakeAuthority) Refresh(ctx context.Context, refreshToken string) (*tokenstore.Tokens, error) {
	atomic.AddInt32(&fa.refreshCalls, 1)
	if fa.RefreshFunc == nil {
		return nil, session.RefreshRejectedErr
	}
	return fa.RefreshFunc(ctx, refreshToken)
}

func (fa *FakeAuthority) LoginCalls() int {
	return int(atomic.LoadInt32(&fa.loginCalls))
}

func (fa *FakeAuthority) RefreshCalls() int {
	return int(atomic.LoadInt32(&fa.refreshCalls))
}
