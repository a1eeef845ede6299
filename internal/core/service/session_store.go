package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

// SessionStore is the single source of truth for who the current user is.
//
// State moves uninitialized → loading → resolved, and every transition
// publishes a fresh immutable Snapshot to subscribers. Transitions are
// serialized: Initialize, Login, Signup and Logout never interleave.
type SessionStore struct {
	auth   ports.AuthAPI
	tokens ports.TokenStore
	log    zerolog.Logger
	now    func() time.Time

	opMu        sync.Mutex
	initialized bool

	mu      sync.RWMutex
	snap    domain.Snapshot
	subs    map[int]chan domain.Snapshot
	nextSub int
}

// SessionOption customizes a SessionStore.
type SessionOption func(*SessionStore)

// WithClock injects the time source used for token expiry checks.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessionStore returns an uninitialized store.
func NewSessionStore(auth ports.AuthAPI, tokens ports.TokenStore, log zerolog.Logger, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		auth:   auth,
		tokens: tokens,
		log:    log.With().Str("component", "session").Logger(),
		now:    time.Now,
		subs:   make(map[int]chan domain.Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state. The returned value shares nothing with
// the store.
func (s *SessionStore) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.snap)
}

// Subscribe returns a channel that always holds the newest snapshot, starting
// with the current one. Slow readers only miss intermediate states. Call the
// returned func to unsubscribe; it closes the channel.
func (s *SessionStore) Subscribe() (<-chan domain.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan domain.Snapshot, 1)
	ch <- cloneSnapshot(s.snap)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// Initialize resolves the persisted token into a session. It runs once;
// later calls return the current snapshot. Every failure degrades to an
// anonymous session and clears the token, so the result is always resolved.
func (s *SessionStore) Initialize(ctx context.Context) domain.Snapshot {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.initialized {
		return s.Snapshot()
	}
	s.initialized = true

	s.publish(domain.Snapshot{Phase: domain.PhaseLoading})
	snap := s.resolve(ctx)
	s.publish(snap)
	return cloneSnapshot(snap)
}

func (s *SessionStore) resolve(ctx context.Context) (snap domain.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("session initialization panicked")
			s.clearToken(ctx)
			snap = domain.Anonymous()
		}
	}()

	token, err := s.tokens.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("reading persisted token failed")
		s.clearToken(ctx)
		return domain.Anonymous()
	}
	if token == "" {
		s.log.Debug().Msg("no persisted token")
		return domain.Anonymous()
	}

	sess, err := s.identify(ctx, token)
	if err != nil {
		// An interrupted start says nothing about the token; keep it for the next run.
		if ctx.Err() != nil {
			s.log.Info().Err(err).Msg("session initialization interrupted")
			return domain.Anonymous()
		}
		s.log.Info().Err(err).Msg("persisted token rejected")
		s.clearToken(ctx)
		return domain.Anonymous()
	}

	s.log.Info().Str("user_id", sess.ID).Str("role", sess.Role.String()).Msg("session restored")
	return domain.AuthenticatedAs(sess.ID, sess.Role)
}

// Login exchanges credentials for a token and resolves the session.
// On failure the previous token and session are left as they were.
func (s *SessionStore) Login(ctx context.Context, creds ports.Credentials) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.login(ctx, creds); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// Signup creates the account and then logs in with the same credentials.
func (s *SessionStore) Signup(ctx context.Context, creds ports.Credentials) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.auth.Signup(ctx, creds); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	s.log.Info().Str("email", creds.Email).Msg("account created")

	if err := s.login(ctx, creds); err != nil {
		return fmt.Errorf("signup: login: %w", err)
	}
	return nil
}

func (s *SessionStore) login(ctx context.Context, creds ports.Credentials) error {
	token, err := s.auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("%w: empty token in login response", domain.ErrTokenMalformed)
	}
	if _, err := decodeToken(token, s.now()); err != nil {
		return err
	}

	previous, prevErr := s.tokens.Get(ctx)
	if err := s.tokens.Set(ctx, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	sess, err := s.identify(ctx, token)
	if err != nil {
		s.restoreToken(ctx, previous, prevErr)
		return err
	}

	s.initialized = true
	s.publish(domain.AuthenticatedAs(sess.ID, sess.Role))
	s.log.Info().Str("user_id", sess.ID).Str("role", sess.Role.String()).Msg("logged in")
	return nil
}

// Logout forgets the token and resolves to anonymous. It never talks to the
// backend and never fails.
func (s *SessionStore) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.clearToken(ctx)
	s.initialized = true
	s.publish(domain.Anonymous())
	s.log.Info().Msg("logged out")
}

// identify decodes the token locally and asks the backend for the role.
// The id comes from the token; the server id is only a fallback.
func (s *SessionStore) identify(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := decodeToken(token, s.now())
	if err != nil {
		return nil, err
	}

	ident, err := s.auth.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("confirm identity: %w", err)
	}
	role, err := domain.ParseRole(ident.Role)
	if err != nil {
		return nil, err
	}

	id := claims.UserID
	if id == "" {
		id = ident.ID
	}
	if id == "" {
		return nil, fmt.Errorf("%w: no user id", domain.ErrTokenMalformed)
	}
	return &domain.Session{ID: id, Role: role}, nil
}

func (s *SessionStore) clearToken(ctx context.Context) {
	if err := s.tokens.Delete(ctx); err != nil {
		s.log.Warn().Err(err).Msg("deleting persisted token failed")
	}
}

func (s *SessionStore) restoreToken(ctx context.Context, previous string, readErr error) {
	if readErr == nil && previous != "" {
		if err := s.tokens.Set(ctx, previous); err != nil {
			s.log.Warn().Err(err).Msg("restoring previous token failed")
		}
		return
	}
	s.clearToken(ctx)
}

func (s *SessionStore) publish(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = cloneSnapshot(snap)
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- cloneSnapshot(snap):
		default:
		}
	}
}

func cloneSnapshot(snap domain.Snapshot) domain.Snapshot {
	if snap.Session != nil {
		sess := *snap.Session
		snap.Session = &sess
	}
	return snap
}
