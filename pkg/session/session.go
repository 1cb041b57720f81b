// Package session persists the client's browser-like state between CLI
// invocations: credential cookies and a small key/value area mirroring the
// web client's session storage.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const (
	// AuthErrorKey is the only key the client writes into session storage.
	AuthErrorKey = "authError"
	// SessionExpiredMessage is stored under AuthErrorKey when a refresh fails.
	SessionExpiredMessage = "Session expired. Please log in again."
)

type document struct {
	Cookies map[string][]Cookie `json:"cookies"`
	Values  map[string]string   `json:"values"`
}

// Store is a file-backed session. Every mutation is flushed to disk.
type Store struct {
	fs   afero.Fs
	path string
	now  func() time.Time

	mu  sync.Mutex
	doc document
}

// Open loads the session file at path, or starts an empty session when the
// file does not exist yet.
func Open(fs afero.Fs, path string) (*Store, error) {
	s := &Store{
		fs:   fs,
		path: path,
		now:  time.Now,
		doc:  emptyDocument(),
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}
	if s.doc.Cookies == nil {
		s.doc.Cookies = make(map[string][]Cookie)
	}
	if s.doc.Values == nil {
		s.doc.Values = make(map[string]string)
	}
	return s, nil
}

// NewMemory returns a session that lives only in memory.
func NewMemory() *Store {
	s, _ := Open(afero.NewMemMapFs(), "session.json")
	return s
}

func emptyDocument() document {
	return document{
		Cookies: make(map[string][]Cookie),
		Values:  make(map[string]string),
	}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc.Values[key]
	return v, ok
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Values[key] = value
	return s.flushLocked()
}

func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.Values[key]; !ok {
		return nil
	}
	delete(s.doc.Values, key)
	return s.flushLocked()
}

// SetAuthError records the message shown on the next login.
func (s *Store) SetAuthError(message string) error {
	return s.Set(AuthErrorKey, message)
}

// TakeAuthError returns and clears the pending auth error, if any.
func (s *Store) TakeAuthError() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, ok := s.doc.Values[AuthErrorKey]
	if !ok {
		return "", nil
	}
	delete(s.doc.Values, AuthErrorKey)
	return msg, s.flushLocked()
}

// Clear drops every cookie and value, as a logout does.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = emptyDocument()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
