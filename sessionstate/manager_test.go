package sessionstate_test

import (
	"context"
	"testing"
	"time"

	"github.com/NexoraTechHQ/nexora-sub000/navigation"
	"github.com/NexoraTechHQ/nexora-sub000/session"
	"github.com/NexoraTechHQ/nexora-sub000/session/sessionfakes"
	"github.com/NexoraTechHQ/nexora-sub000/sessionstate"
	"github.com/NexoraTechHQ/nexora-sub000/tokenstore"
	"github.com/NexoraTechHQ/nexora-sub000/tokenstore/storefakes"
	"github.com/NexoraTechHQ/nexora-sub000/users"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type testFixture struct {
	store     *storefakes.FakeStore
	authority *sessionfakes.FakeAuthority
	nav       *navigation.Recorder
	manager   *sessionstate.Manager
}

func setupTestFixture(t *testing.T, startPath string) *testFixture {
	t.Helper()

	f := &testFixture{
		store:     storefakes.NewFakeStore(),
		authority: sessionfakes.NewFakeAuthority(),
		nav:       navigation.NewRecorder(startPath),
	}

	f.authority.LoginFunc = func(_ context.Context, username, password string, rememberMe bool) (*users.User, *tokenstore.Tokens, error) {
		if password != "password123" {
			return nil, nil, session.InvalidCredentialsErr
		}
		user := &users.User{ID: "user-1", Name: "Alice Reed", Email: "alice.reed@example.com", Role: users.RoleManager}
		tokens := &tokenstore.Tokens{AccessToken: "access-0", RefreshToken: "refresh-0", ExpiresAt: baseTime.Add(time.Hour)}
		return user, tokens, nil
	}
	f.authority.RefreshFunc = func(_ context.Context, refreshToken string) (*tokenstore.Tokens, error) {
		if refreshToken == "revoked" {
			return nil, session.RefreshRejectedErr
		}
		return &tokenstore.Tokens{AccessToken: "refreshed", RefreshToken: "refreshed", ExpiresAt: baseTime.Add(time.Hour)}, nil
	}

	service, err := session.NewService(f.store, f.authority, session.WithNowTime(func() time.Time { return baseTime }))
	require.NoError(t, err)

	manager, err := sessionstate.NewManager(service, f.nav)
	require.NoError(t, err)
	f.manager = manager

	return f
}

func (f *testFixture) storeSession(t *testing.T, refreshToken string, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, f.store.Set(tokenstore.Tokens{
		AccessToken:  "stored-access",
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}))
	require.NoError(t, f.store.SetUser(users.User{ID: "user-1", Name: "Alice Reed", Role: users.RoleManager}))
}

func TestManager_InitAuth(t *testing.T) {
	t.Run("valid stored session resolves authenticated", func(t *testing.T) {
		f := setupTestFixture(t, navigation.RouteDashboard)
		f.storeSession(t, "refresh-0", baseTime.Add(time.Hour))

		f.manager.InitAuth(context.Background())

		state := f.manager.Snapshot()
		require.True(t, state.Authenticated)
		require.False(t, state.Loading)
		require.NotNil(t, state.User)
		require.NotNil(t, state.Tokens)
		require.Empty(t, f.nav.Moves())
		require.Equal(t, 0, f.authority.RefreshCalls())
	})

	t.Run("stale stored session refreshes once and recovers", func(t *testing.T) {
		f := setupTestFixture(t, navigation.RouteDashboard)
		f.storeSession(t, "refresh-0", baseTime.Add(-time.Minute))

		f.manager.InitAuth(context.Background())

		state := f.manager.Snapshot()
		require.True(t, state.Authenticated)
		require.Equal(t, "refreshed", state.Tokens.AccessToken)
		require.Equal(t, 1, f.authority.RefreshCalls())
	})

	t.Run("failed refresh collapses to unauthenticated and redirects", func(t *testing.T) {
		f := setupTestFixture(t, navigation.RouteDashboard)
		f.storeSession(t, "revoked", baseTime.Add(-time.Minute))

		f.manager.InitAuth(context.Background())

		state := f.manager.Snapshot()
		require.False(t, state.Authenticated)
		require.False(t, state.Loading)
		require.Nil(t, state.User)
		require.Nil(t, state.Tokens)
		require.Nil(t, f.store.Get())
		require.Equal(t, []string{navigation.RouteSignIn}, f.nav.Moves())
	})

	t.Run("empty store on a public surface does not redirect", func(t *testing.T) {
		f := setupTestFixture(t, navigation.RouteSignIn)

		f.manager.InitAuth(context.Background())

		state := f.manager.Snapshot()
		require.False(t, state.Authenticated)
		require.False(t, state.Loading)
		require.Empty(t, f.nav.Moves())
	})
}

func TestManager_Login(t *testing.T) {
	t.Run("success transitions to authenticated and navigates", func(t *testing.T) {
		f := setupTestFixture(t, navigation.RouteSignIn)

		var transitions []sessionstate.State
		f.manager.Subscribe(func(state sessionstate.State) {
			transitions = append(transitions, state)
		})

		f.manager.Login(context.Background(), "alice.reed", "password123", false)

		state := f.manager.Snapshot()
		require.True(t, state.Authenticated)
		require.Equal(t, "Alice Reed", state.User.Name)
		require.Equal(t, []string{navigation.RouteDashboard}, f.nav.Moves())

		// Loading was visible to subscribers before the final state.
		require.GreaterOrEqual(t, len(transitions), 2)
		require.True(t, transitions[0].Loading)
		require.True(t, transitions[len(transitions)-1].Authenticated)
	})

	t.Run("failure records the message inline without navigating", func(t *testing.T) {
		f := setupTestFixture(t, navigation.RouteSignIn)

		f.manager.Login(context.Background(), "alice.reed", "wrong", false)

		state := f.manager.Snapshot()
		require.False(t, state.Authenticated)
		require.Equal(t, "Invalid username or password", state.Err)
		require.Empty(t, f.nav.Moves())
	})
}

func TestManager_Logout(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteDashboard)
	f.storeSession(t, "refresh-0", baseTime.Add(time.Hour))
	f.manager.InitAuth(context.Background())

	f.manager.Logout()

	state := f.manager.Snapshot()
	require.False(t, state.Authenticated)
	require.Nil(t, state.User)
	require.Nil(t, state.Tokens)
	require.Nil(t, f.store.Get())
	require.Contains(t, f.nav.Moves(), navigation.RouteSignIn)
}

func TestManager_ClearError(t *testing.T) {
	f := setupTestFixture(t, navigation.RouteSignIn)
	f.manager.Login(context.Background(), "alice.reed", "wrong", false)
	require.NotEmpty(t, f.manager.Snapshot().Err)

	f.manager.ClearError()

	state := f.manager.Snapshot()
	require.Empty(t, state.Err)
	require.False(t, state.Authenticated)
}
