// Package session holds the client-side record of an authenticated
// identity: one bearer token, persisted in durable storage so it survives
// restarts, plus the derived authenticated flag.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Status is the hydration/authentication state of a Store.
type Status int

const (
	// StatusLoading means durable storage has not been read yet.
	// Protected views must wait instead of redirecting.
	StatusLoading Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Store is the session context shared by every component that needs the
// token.  It is created in the loading state; call Hydrate once at start.
// Store trusts whatever token it holds; rejections by the API are handled
// by the caller that saw them.
type Store struct {
	storage Storage
	logger  *slog.Logger

	mu       sync.RWMutex
	token    string
	status   Status
	ready    chan struct{}
	hydrated bool
}

// NewStore returns a Store backed by storage.  A nil logger discards logs.
func NewStore(storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		storage: storage,
		logger:  logger,
		status:  StatusLoading,
		ready:   make(chan struct{}),
	}
}

// Hydrate reads the token from durable storage and leaves the loading
// state.  A read failure is logged and treated as "no token" so that the
// application never stays stuck in loading.  Calling Hydrate again is a
// no-op.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return nil
	}

	token, err := s.storage.Load(ctx)
	switch {
	case err == nil && token != "":
		s.token = token
		s.status = StatusAuthenticated
	case err == nil, errors.Is(err, ErrNoToken):
		s.status = StatusAnonymous
		err = nil
	default:
		s.logger.Warn("session hydrate failed", "error", err)
		s.status = StatusAnonymous
	}
	s.hydrated = true
	close(s.ready)
	return err
}

// Ready is closed once hydration has finished.
func (s *Store) Ready() <-chan struct{} { return s.ready }

// Wait blocks until hydration has finished or ctx is done.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login stores token durably and marks the session authenticated.  The
// gateway reads the token on every request, so it applies to all calls
// issued after Login returns.
func (s *Store) Login(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}
	if err := s.storage.Save(ctx, token); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.status = StatusAuthenticated
	s.finishHydrationLocked()
	s.mu.Unlock()
	s.logger.Info("session login", "user_id", s.UserID())
	return nil
}

// Logout clears durable storage and drops the credential.  The in-memory
// state is cleared even when storage fails, so no further request carries
// the token.
func (s *Store) Logout(ctx context.Context) error {
	err := s.storage.Clear(ctx)
	s.mu.Lock()
	s.token = ""
	s.status = StatusAnonymous
	s.finishHydrationLocked()
	s.mu.Unlock()
	if err != nil {
		s.logger.Warn("session logout: clear storage failed", "error", err)
	}
	return err
}

// Token returns the current bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Status returns the current state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Authenticated reports whether a token is held.
func (s *Store) Authenticated() bool { return s.Status() == StatusAuthenticated }

// Loading reports whether hydration is still pending.
func (s *Store) Loading() bool { return s.Status() == StatusLoading }

// Claims decodes the held token without verifying it.
func (s *Store) Claims() (Claims, bool) {
	tok := s.Token()
	if tok == "" {
		return Claims{}, false
	}
	return ParseClaims(tok)
}

// UserID returns the subject of the held token, or "guest".
func (s *Store) UserID() string {
	if c, ok := s.Claims(); ok && c.UserID != "" {
		return c.UserID
	}
	return "guest"
}

// finishHydrationLocked ends the loading state when Login or Logout runs
// before Hydrate.  Caller holds s.mu.
func (s *Store) finishHydrationLocked() {
	if !s.hydrated {
		s.hydrated = true
		close(s.ready)
	}
}
