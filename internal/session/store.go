// Package session persists the client's proof of authentication (bearer
// token, user id, cached email) as a single JSON file shared by every
// process of the app. The file plays the role a browser's localStorage
// would: presence of a token there is necessary but not sufficient proof of
// validity — the server confirms it on startup via the verify call.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileName = "session.json"

// Session is the client-held credential. All three fields live and die
// together: Clear removes the whole file, never an individual key.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

func (s Session) Valid() bool { return s.Token != "" && s.UserID != "" }

// Store reads and writes the session file under Dir.
type Store struct {
	Dir string

	mu sync.Mutex
}

// DefaultDir resolves the state directory: $COACHINGAPP_DIR if set, else
// the per-user config dir.
func DefaultDir() (string, error) {
	if d := os.Getenv("COACHINGAPP_DIR"); d != "" {
		return d, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "coachingapp"), nil
}

func (st *Store) path() string { return filepath.Join(st.Dir, fileName) }

// Load returns the stored session, or a zero Session when none exists.
func (st *Store) Load() (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := os.ReadFile(st.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt session file is treated the same as an absent one; the
		// caller will land in the unauthenticated state and re-login.
		return Session{}, nil
	}
	return s, nil
}

// Save writes the session via temp file + rename so a concurrent Load never
// observes a partially written file.
func (st *Store) Save(s Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := os.MkdirAll(st.Dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tmp := st.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, st.path()); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// Clear removes the session file. Removing the file is what makes the clear
// atomic: there is no state where the token is gone but the user id remains.
func (st *Store) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := os.Remove(st.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// ModTime reports the session file's mtime, zero when absent. Another
// process logging in or out changes it; pollers compare against a captured
// value to get the equivalent of a storage-change notification.
func (st *Store) ModTime() time.Time {
	info, err := os.Stat(st.path())
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
