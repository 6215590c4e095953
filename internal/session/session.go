// Package session persists the signed-in user's token and profile between runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Data is the on-disk session
type Data struct {
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	SavedAt time.Time    `json:"saved_at"`
}

// FileStore keeps the session in a JSON file readable only by the owner
type FileStore struct {
	path string
	now  func() time.Time

	mu       sync.RWMutex
	data     Data
	override string
}

// DefaultPath is session.json in the user's config directory
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "jobboard", "session.json"), nil
}

// Open loads the session at path. A missing file is an empty session.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if err := json.Unmarshal(data, &s.data); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", path, err)
	}
	return s, nil
}

// Override makes Token return tok instead of the saved token
func (s *FileStore) Override(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = tok
}

// Token returns the bearer token, or "" when there is none or it has expired
func (s *FileStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok := s.data.Token
	if s.override != "" {
		tok = s.override
	}
	if expired(tok, s.now()) {
		return ""
	}
	return tok
}

// User returns the saved user of a live session
func (s *FileStore) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.User == nil || s.data.Token == "" || expired(s.data.Token, s.now()) {
		return nil
	}
	u := *s.data.User
	return &u
}

// Save stores token and user and writes them to disk
func (s *FileStore) Save(token string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Data{Token: token, User: user, SavedAt: s.now()}
	return s.write()
}

// SaveUser replaces the stored user, keeping the token
func (s *FileStore) SaveUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.User = user
	return s.write()
}

// Clear forgets the session and removes the file
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Data{}
	s.override = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// ExpiresAt returns the session token's expiry, if it carries one
func (s *FileStore) ExpiresAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ExpiresAt(s.data.Token)
}

func (s *FileStore) write() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// ExpiresAt reads the exp claim of a JWT without checking its signature;
// the backend does that. Opaque tokens report no expiry.
func ExpiresAt(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func expired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	return ok && !now.Before(exp)
}
