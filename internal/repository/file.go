package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// sessionFile is the on-disk layout of the session file. One entry per
// profile, so switching profiles keeps each profile's login.
type sessionFile struct {
	Sessions map[string]sessionEntry `yaml:"sessions"`
}

type sessionEntry struct {
	Token   string    `yaml:"token"`
	Sealed  bool      `yaml:"sealed,omitempty"`
	SavedAt time.Time `yaml:"saved_at"`
}

// FileTokenStore keeps tokens in a YAML file readable only by the owner
type FileTokenStore struct {
	mu     sync.Mutex
	path   string
	scope  string
	sealer *Sealer
	now    func() time.Time
}

// FileTokenStoreConfig holds configuration for the file store
type FileTokenStoreConfig struct {
	Path  string
	Scope string
	// Passphrase enables encryption at rest when non-empty
	Passphrase string
}

// NewFileTokenStore creates a file-backed token store
func NewFileTokenStore(cfg FileTokenStoreConfig) *FileTokenStore {
	scope := cfg.Scope
	if scope == "" {
		scope = DefaultScope
	}
	s := &FileTokenStore{
		path:  cfg.Path,
		scope: scope,
		now:   time.Now,
	}
	if cfg.Passphrase != "" {
		s.sealer = NewSealer(cfg.Passphrase, scope)
	}
	return s
}

// Get returns the stored token for this scope, or "" if none
func (s *FileTokenStore) Get(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return "", err
	}

	entry, ok := f.Sessions[s.scope]
	if !ok || entry.Token == "" {
		return "", nil
	}

	if !entry.Sealed {
		return entry.Token, nil
	}
	if s.sealer == nil {
		return "", fmt.Errorf("%w: token is sealed but no passphrase is configured", ErrWrongPassphrase)
	}
	return s.sealer.Open(entry.Token)
}

// Set stores token for this scope
func (s *FileTokenStore) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}

	entry := sessionEntry{Token: token, SavedAt: s.now().UTC()}
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(token)
		if err != nil {
			return err
		}
		entry.Token = sealed
		entry.Sealed = true
	}

	f.Sessions[s.scope] = entry
	return s.save(f)
}

// Clear removes the token for this scope
func (s *FileTokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := f.Sessions[s.scope]; !ok {
		return nil
	}

	delete(f.Sessions, s.scope)
	return s.save(f)
}

func (s *FileTokenStore) load() (*sessionFile, error) {
	f := &sessionFile{Sessions: make(map[string]sessionEntry)}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if f.Sessions == nil {
		f.Sessions = make(map[string]sessionEntry)
	}
	return f, nil
}

// save writes through a temp file so a crash never leaves a truncated file
func (s *FileTokenStore) save(f *sessionFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
