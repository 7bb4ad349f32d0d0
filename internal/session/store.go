// Package session owns the authentication token and the current user
// identity: the only two pieces of client state that survive restarts.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/hcissey0/fitplan/internal/api"
	"github.com/hcissey0/fitplan/internal/models"
	"github.com/hcissey0/fitplan/internal/notify"
	"github.com/hcissey0/fitplan/internal/utils"
)

// ErrNoSession is returned by Require when no session is established.
var ErrNoSession = errors.New("not signed in")

// Store manages the session lifecycle. All mutation goes through
// Initialize, Login, Signup, Logout and RefreshIdentity; everything else
// is a read.
type Store struct {
	client   *api.Client
	dataDir  string
	log      *utils.Logger
	notifier notify.Notifier

	mu        sync.RWMutex
	token     string
	user      *models.User
	loading   bool
	listeners []func(*models.User)
}

func New(client *api.Client, dataDir string, log *utils.Logger, notifier notify.Notifier) *Store {
	return &Store{client: client, dataDir: dataDir, log: log, notifier: notifier}
}

// OnIdentityChange registers a listener invoked whenever the identity
// changes, including to nil on logout. Listeners run synchronously on the
// mutating call.
func (s *Store) OnIdentityChange(fn func(*models.User)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Initialize restores a persisted session. With no usable token on disk the
// session stays empty and Loading never flips. With one, the cached
// identity is installed as a placeholder and the authoritative identity is
// re-fetched; a failed fetch tears the whole session down.
func (s *Store) Initialize(ctx context.Context) {
	token, ok := s.loadToken()
	if !ok {
		return
	}

	s.mu.Lock()
	s.loading = true
	s.token = token
	s.mu.Unlock()
	s.client.SetToken(token)

	if cached, err := s.loadCachedUser(); err == nil {
		// Placeholder only; replaced wholesale (or cleared) below.
		s.mu.Lock()
		s.user = cached
		s.mu.Unlock()
	}

	err := s.RefreshIdentity(ctx)

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
	if err == nil {
		s.log.Info("session restored for %s", s.User().Username)
	}
}

// Login exchanges credentials for a session. On failure the error is
// surfaced to the user and returned so the caller keeps its own state.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	out, err := s.client.Login(ctx, email, password)
	if err != nil {
		api.Report(s.notifier, "Login failed", err)
		return nil, err
	}
	s.establish(out.Token, &out.User)
	return s.User(), nil
}

// Signup registers a new account; same contract as Login. Field validation
// happens at the caller and at the backend, not here.
func (s *Store) Signup(ctx context.Context, req api.SignupRequest) (*models.User, error) {
	out, err := s.client.Signup(ctx, req)
	if err != nil {
		api.Report(s.notifier, "Signup failed", err)
		return nil, err
	}
	s.establish(out.Token, &out.User)
	return s.User(), nil
}

// Logout clears the in-memory session, detaches the token from the HTTP
// client and removes everything persisted.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.client.ClearToken()
	s.removePersisted()
	s.fire(nil)
}

// RefreshIdentity re-fetches the current identity and replaces the cached
// one wholesale. A failure is treated as an expired session and forces
// logout; this is the sole path by which an auth failure degrades.
func (s *Store) RefreshIdentity(ctx context.Context) error {
	user, err := s.client.Me(ctx)
	if err != nil {
		api.Report(s.notifier, "Session expired", err)
		s.Logout()
		return err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	if err := s.cacheUser(user); err != nil {
		s.log.Warn("cache identity: %v", err)
	}
	s.fire(user)
	return nil
}

func (s *Store) establish(token string, user *models.User) {
	s.client.SetToken(token)
	if err := s.saveToken(token); err != nil {
		s.log.Warn("persist token: %v", err)
	}
	if err := s.cacheUser(user); err != nil {
		s.log.Warn("cache identity: %v", err)
	}
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	s.fire(user)
}

func (s *Store) fire(user *models.User) {
	s.mu.RLock()
	listeners := make([]func(*models.User), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(user)
	}
}

// User returns the current identity, nil when unauthenticated or while a
// restore's identity fetch is still pending.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token returns the session token, "" when none.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Loading is true only while Initialize is restoring a persisted token.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Authenticated reports whether a confirmed session exists.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// Require is the route-guard analog: callers needing a session get
// ErrNoSession to redirect on.
func (s *Store) Require() error {
	if !s.Authenticated() {
		return ErrNoSession
	}
	return nil
}
