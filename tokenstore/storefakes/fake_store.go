package storefakes

import (
	"sync"

	"github.com/NexoraTechHQ/nexora-sub000/tokenstore"
	"github.com/NexoraTechHQ/nexora-sub000/users"
)

var _ tokenstore.Store = (*FakeStore)(nil)

// FakeStore is a thread-safe in-memory Store for tests.
type FakeStore struct {
	lock   sync.RWMutex
	tokens *tokenstore.Tokens
	user   *users.User

	SetErr     error // returned from Set when non-nil
	SetUserErr error // returned from SetUser when non-nil
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) Get() *tokenstore.Tokens {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.tokens == nil {
		return nil
	}
	// Return a copy to prevent external modifications
	tokens := *fs.tokens
	return &tokens
}

func (fs *FakeStore) Set(tokens tokenstore.Tokens) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.SetErr != nil {
		return fs.SetErr
	}
	fs.tokens = &tokens
	return nil
}

func (fs *FakeStore) Clear() {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.tokens = nil
	fs.user = nil
}

func (fs *FakeStore) GetUser() *users.User {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	if fs.user == nil {
		return nil
	}
	user := *fs.user
	return &user
}

func (fs *FakeStore) SetUser(user users.User) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.SetUserErr != nil {
		return fs.SetUserErr
	}
	fs.user = &user
	return nil
}
