// Package session holds the per-deployment LinkedIn session cookie (li_at).
// The cookie is opaque to the bridge: it is stored, injected into the spawned
// server's environment, and never validated locally. Validity only surfaces
// as an authentication failure reported by the external server.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const cookieFileName = "linkedin_cookie.txt"

// Store keeps the session cookie in memory and mirrors it to a file so a
// freshly spawned server process observes cookies set before its start.
type Store struct {
	mu     sync.RWMutex
	cookie string
	path   string
}

// NewStore creates a store backed by a file in dir. An empty dir selects the
// system temp directory. A cookie left behind by a previous run is loaded.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = os.TempDir()
	}
	s := &Store{path: filepath.Join(dir, cookieFileName)}
	if data, err := os.ReadFile(s.path); err == nil {
		s.cookie = strings.TrimSpace(string(data))
	}
	return s
}

// Set stores the cookie and persists it.
func (s *Store) Set(cookie string) error {
	cookie = strings.TrimSpace(cookie)
	if cookie == "" {
		return fmt.Errorf("session cookie is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path, []byte(cookie), 0o600); err != nil {
		return fmt.Errorf("persist session cookie: %w", err)
	}
	s.cookie = cookie
	return nil
}

// Get returns the current cookie, or empty when none is set.
func (s *Store) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cookie
}

// Has reports whether a cookie is present.
func (s *Store) Has() bool {
	return s.Get() != ""
}

// Clear removes the cookie from memory and disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookie = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session cookie file: %w", err)
	}
	return nil
}
