package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/roadmap-client/internal/clients/roadmapapi"
	"github.com/yungbote/roadmap-client/internal/logger"
	"github.com/yungbote/roadmap-client/internal/types"
)

// Event is an authentication transition. Authenticated=true carries the user
// that just logged in (or was restored from a stored token); false means the
// session ended.
type Event struct {
	Authenticated bool
	User          *types.User
}

// Store is the single source of truth for the current session. Loading is
// true until the initial token resolution settles, which happens exactly
// once per process; no route-guard decision should be trusted before then.
type Store struct {
	log *logger.Logger
	api roadmapapi.Client

	mu        sync.RWMutex
	user      *types.User
	loading   bool
	listeners []func(Event)
}

func NewStore(log *logger.Logger, api roadmapapi.Client) *Store {
	return &Store{
		log:     log.With("store", "SessionStore"),
		api:     api,
		loading: true,
	}
}

// OnAuthChange registers a handler invoked synchronously on every
// authentication transition. Handlers must not call back into the store.
func (s *Store) OnAuthChange(fn func(Event)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Resolve performs the one-time initial session resolution from a stored
// token. An empty, expired or rejected token settles the store
// unauthenticated; a valid one restores the user without a login round trip.
func (s *Store) Resolve(ctx context.Context, token string) {
	s.mu.Lock()
	if !s.loading {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	token = strings.TrimSpace(token)
	if token == "" {
		s.settle(nil)
		return
	}
	if tokenExpired(token) {
		s.log.Debug("Stored token is expired, starting unauthenticated")
		s.settle(nil)
		return
	}

	s.api.SetToken(token)
	user, err := s.api.GetCurrentUser(ctx)
	if err != nil {
		s.log.Warn("Stored token rejected by server", "error", err)
		s.api.ClearToken()
		s.settle(nil)
		return
	}
	s.settle(user)
}

func (s *Store) settle(user *types.User) {
	s.mu.Lock()
	s.loading = false
	s.user = user
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if user != nil {
		s.log.Info("Session restored", "user_id", user.ID)
		emit(listeners, Event{Authenticated: true, User: user})
	}
}

// Login authenticates against the remote service and publishes the
// authenticated transition.
func (s *Store) Login(ctx context.Context, email, password string) (*types.User, error) {
	user, _, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.loading = false
	s.user = user
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.log.Info("User logged in", "user_id", user.ID)
	emit(listeners, Event{Authenticated: true, User: user})
	return user, nil
}

// Register creates an account and starts a session for it.
func (s *Store) Register(ctx context.Context, req roadmapapi.RegisterRequest) (*types.User, error) {
	user, _, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.loading = false
	s.user = user
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.log.Info("User registered", "user_id", user.ID)
	emit(listeners, Event{Authenticated: true, User: user})
	return user, nil
}

// Logout ends the session. Downstream roadmap state is cleared by
// subscribers reacting to the transition, not by direct calls.
func (s *Store) Logout() {
	s.mu.Lock()
	wasAuthenticated := s.user != nil
	s.user = nil
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.api.ClearToken()
	if wasAuthenticated {
		s.log.Info("User logged out")
		emit(listeners, Event{Authenticated: false})
	}
}

// UpdateUser replaces the in-memory user with a server response. No
// transition is published; identity did not change.
func (s *Store) UpdateUser(user *types.User) {
	if user == nil {
		return
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// UpdateProfile pushes profile changes to the service and replaces the local
// user wholesale with the returned value.
func (s *Store) UpdateProfile(ctx context.Context, req roadmapapi.ProfileUpdate) (*types.User, error) {
	user, err := s.api.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}
	s.UpdateUser(user)
	return user, nil
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) User() *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) snapshotListeners() []func(Event) {
	out := make([]func(Event), len(s.listeners))
	copy(out, s.listeners)
	return out
}

func emit(listeners []func(Event), ev Event) {
	for _, fn := range listeners {
		fn(ev)
	}
}

// tokenExpired does a local, unverified expiry check so an obviously stale
// token is discarded without a network call. Signature validation stays with
// the server.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
