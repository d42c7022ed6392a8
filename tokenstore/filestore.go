package tokenstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/NexoraTechHQ/nexora-sub000/users"
	"github.com/pkg/errors"
)

// Slot file names. Each slot is an independent file so a partially written
// or corrupted slot can be skipped without losing the others.
const (
	accessTokenFile  = "access_token"
	refreshTokenFile = "refresh_token"
	expiresAtFile    = "expires_at"
	userFile         = "user.json"
)

// FileStore keeps the session credentials in four named slots under a data
// directory so they survive restarts of the console.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the data directory if needed and returns a store
// rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("[NewFileStore] data directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] MkdirAll")
	}
	return &FileStore{dir: dir}, nil
}

// Get returns the stored token set, or nil if any slot is missing or
// unreadable.
func (fs *FileStore) Get() *Tokens {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	access := fs.readSlot(accessTokenFile)
	refreshToken := fs.readSlot(refreshTokenFile)
	expiry := fs.readSlot(expiresAtFile)
	if access == "" || refreshToken == "" || expiry == "" {
		return nil
	}

	expiresAt, err := time.Parse(time.RFC3339, expiry)
	if err != nil {
		return nil
	}

	return &Tokens{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
}

// Set writes the three token slots as a unit.
func (fs *FileStore) Set(tokens Tokens) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.writeSlot(accessTokenFile, tokens.AccessToken); err != nil {
		return errors.Wrap(err, "[FileStore.Set] access token")
	}
	if err := fs.writeSlot(refreshTokenFile, tokens.RefreshToken); err != nil {
		return errors.Wrap(err, "[FileStore.Set] refresh token")
	}
	if err := fs.writeSlot(expiresAtFile, tokens.ExpiresAt.Format(time.RFC3339)); err != nil {
		return errors.Wrap(err, "[FileStore.Set] expiry")
	}
	return nil
}

// Clear removes every slot. Removal errors are ignored: after a clear,
// readers must always see an absent session.
func (fs *FileStore) Clear() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, name := range []string{accessTokenFile, refreshTokenFile, expiresAtFile, userFile} {
		_ = os.Remove(filepath.Join(fs.dir, name))
	}
}

// GetUser returns the stored profile, or nil if the slot is missing or
// malformed.
func (fs *FileStore) GetUser() *users.User {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(fs.dir, userFile))
	if err != nil {
		return nil
	}

	var user users.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}
	return &user
}

func (fs *FileStore) SetUser(user users.User) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "[FileStore.SetUser] marshal")
	}
	if err := os.WriteFile(filepath.Join(fs.dir, userFile), data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.SetUser] write")
	}
	return nil
}

func (fs *FileStore) readSlot(name string) string {
	data, err := os.ReadFile(filepath.Join(fs.dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (fs *FileStore) writeSlot(name, value string) error {
	return os.WriteFile(filepath.Join(fs.dir, name), []byte(value), 0o600)
}
