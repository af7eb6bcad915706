package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/forgo/vidgram/internal/model"
	"github.com/forgo/vidgram/pkg/jwt"
)

// State is the lifecycle state of a session
type State int

const (
	Anonymous State = iota
	Authenticated
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Session errors
var (
	ErrTokenRequired    = errors.New("token is required")
	ErrIdentityRequired = errors.New("identity id is required")
)

// TokenStore is the durable home of the bearer token. Get returns "" with a
// nil error when nothing is stored.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Session holds the signed-in identity. Every accessor reads the current
// state, so a call made after Logout fails with ErrUnauthenticated even if
// the caller obtained the session earlier.
type Session struct {
	mu       sync.RWMutex
	identity *model.Identity

	store   TokenStore
	decoder *jwt.Decoder
	logger  *slog.Logger
}

// Config holds configuration for a session
type Config struct {
	Store   TokenStore
	Decoder *jwt.Decoder
	Logger  *slog.Logger
}

// New creates an anonymous session
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	decoder := cfg.Decoder
	if decoder == nil {
		decoder = jwt.NewUnverifiedDecoder()
	}
	return &Session{
		store:   cfg.Store,
		decoder: decoder,
		logger:  logger,
	}
}

// Login persists token and publishes identity. If the token cannot be
// persisted the session stays anonymous.
func (s *Session) Login(ctx context.Context, token string, identity model.Identity) error {
	if token == "" {
		return ErrTokenRequired
	}
	if identity.ID == "" {
		return ErrIdentityRequired
	}

	if s.store != nil {
		if err := s.store.Set(ctx, token); err != nil {
			return fmt.Errorf("failed to persist token: %w", err)
		}
	}

	identity.Token = token

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()

	s.logger.Info("session started", slog.String("user_id", identity.ID))
	return nil
}

// Logout clears the in-memory identity and the stored token. Memory is
// cleared first so no new call can use the token while the store is cleared.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear stored token: %w", err)
		}
	}
	return nil
}

// Expire handles a 401 from the backend: the session becomes anonymous
func (s *Session) Expire(ctx context.Context) {
	s.mu.RLock()
	wasAuthenticated := s.identity != nil
	s.mu.RUnlock()

	if err := s.Logout(ctx); err != nil {
		s.logger.Error("failed to clear expired session",
			slog.String("error", err.Error()),
		)
	}
	if wasAuthenticated {
		s.logger.Warn("session expired by server")
	}
}

// Restore loads a previously stored token. A token that is expired or
// cannot be decoded is cleared and the session stays anonymous.
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	token, err := s.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stored token: %w", err)
	}
	if token == "" {
		return nil
	}

	claims, err := s.decoder.Decode(token)
	if err != nil {
		s.logger.Info("discarding stored token", slog.String("error", err.Error()))
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			return fmt.Errorf("failed to clear stale token: %w", clearErr)
		}
		return nil
	}

	s.mu.Lock()
	s.identity = &model.Identity{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Token: token,
	}
	s.mu.Unlock()

	s.logger.Debug("session restored", slog.String("user_id", claims.UserID))
	return nil
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Anonymous
	}
	return Authenticated
}

// Identity returns a copy of the signed-in identity
func (s *Session) Identity() (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil, model.ErrUnauthenticated
	}
	id := *s.identity
	return &id, nil
}

// BearerToken returns the token to put in the Authorization header
func (s *Session) BearerToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil || s.identity.Token == "" {
		return "", model.ErrUnauthenticated
	}
	return s.identity.Token, nil
}
