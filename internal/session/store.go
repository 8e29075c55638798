// Package session holds the current user and tokens, persisted through a
// repo.KVRepo so a restarted process resumes the same session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/repo"
)

// Storage keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

var allKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

// Store is the in-memory session backed by durable storage.
// It implements apiclient.TokenStore. Safe for concurrent use.
type Store struct {
	repo   repo.KVRepo
	logger *slog.Logger

	mu      sync.RWMutex
	access  string
	refresh string
	user    *domain.User
}

// NewStore creates an empty, logged-out store. Call Restore to load a
// persisted session.
func NewStore(r repo.KVRepo, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{repo: r, logger: logger}
}

// Restore loads a persisted session. When the access token or the user is
// missing the store stays logged out. A stored user that cannot be decoded
// is treated as corruption: all three keys are purged.
func (s *Store) Restore(ctx context.Context) error {
	access, err := s.get(ctx, KeyAccessToken)
	if err != nil {
		return err
	}
	rawUser, err := s.get(ctx, KeyUser)
	if err != nil {
		return err
	}
	if access == "" || rawUser == "" {
		return nil
	}
	refresh, err := s.get(ctx, KeyRefreshToken)
	if err != nil {
		return err
	}

	var u domain.User
	err = json.Unmarshal([]byte(rawUser), &u)
	if err == nil {
		err = u.Validate()
	}
	if err != nil {
		s.logger.WarnContext(ctx, "purging corrupted session", "error", err)
		if err := s.repo.Delete(ctx, allKeys...); err != nil {
			return fmt.Errorf("session.Store.Restore: purge: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	s.access, s.refresh, s.user = access, refresh, &u
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "session restored", "user", u.Username)
	return nil
}

// IsAuthenticated reports whether both a token and a user are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access != "" && s.user != nil
}

// IsAdmin reports the server-issued admin flag of the current user.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}

// User returns the current user, if any.
func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// UpdateAccessToken replaces the access token after a refresh.
func (s *Store) UpdateAccessToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.access = token
	s.mu.Unlock()
	if err := s.repo.Set(ctx, KeyAccessToken, token); err != nil {
		return fmt.Errorf("session.Store.UpdateAccessToken: %w", err)
	}
	return nil
}

// SetTokens stores a fresh token pair. The user is left unchanged.
func (s *Store) SetTokens(ctx context.Context, pair domain.TokenPair) error {
	s.mu.Lock()
	s.access, s.refresh = pair.Access, pair.Refresh
	s.mu.Unlock()
	if err := s.repo.Set(ctx, KeyAccessToken, pair.Access); err != nil {
		return fmt.Errorf("session.Store.SetTokens: %w", err)
	}
	if err := s.repo.Set(ctx, KeyRefreshToken, pair.Refresh); err != nil {
		return fmt.Errorf("session.Store.SetTokens: %w", err)
	}
	return nil
}

// SetUser stores the user profile.
func (s *Store) SetUser(ctx context.Context, u domain.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("session.Store.SetUser: %w", err)
	}
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	if err := s.repo.Set(ctx, KeyUser, string(b)); err != nil {
		return fmt.Errorf("session.Store.SetUser: %w", err)
	}
	return nil
}

// Clear logs out: memory first, then storage.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.access, s.refresh, s.user = "", "", nil
	s.mu.Unlock()
	if err := s.repo.Delete(ctx, allKeys...); err != nil {
		return fmt.Errorf("session.Store.Clear: %w", err)
	}
	return nil
}

// Expire clears the session after an unrecoverable auth failure.
// Storage errors are logged; the in-memory session is gone regardless.
func (s *Store) Expire(ctx context.Context) {
	if err := s.Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "clear expired session", "error", err)
	}
}

// get returns "" for a missing key.
func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, err := s.repo.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session.Store.Restore: %s: %w", key, err)
	}
	return v, nil
}
