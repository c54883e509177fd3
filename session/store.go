// Package session owns the client's authentication state: the stored token,
// the claims decoded from it and the identity fields derived from those claims.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/go-auth-client/gateway"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/observable"
	"github.com/jrsteele09/go-auth-client/storage"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const bearerPrefix = "Bearer "

// State is a consistent snapshot of the published identity fields.
type State struct {
	User     *token.Claims
	FullName string
	Email    string
	Role     string
}

// Authenticated reports whether the snapshot holds a user. It does not check expiry.
func (s State) Authenticated() bool {
	return s.User != nil
}

// Store is the single source of truth for who is logged in. Token, claims and
// published fields always change together.
type Store struct {
	storage storage.TokenStorage
	decoder token.Decoder
	gateway gateway.Gateway
	logger  zerolog.Logger
	nowTime func() time.Time

	mu         sync.Mutex // serialises apply, logout and initialise
	generation atomic.Uint64
	claims     atomic.Pointer[token.Claims]

	user     *observable.Subject[*token.Claims]
	fullName *observable.Subject[string]
	email    *observable.Subject[string]
	role     *observable.Subject[string]
	state    *observable.Subject[State]
}

type Option func(*Store)

// WithDecoder replaces the default unverified decoder, e.g. with a
// token.SignatureDecoder or token.OIDCDecoder.
func WithDecoder(decoder token.Decoder) Option {
	return func(s *Store) {
		if decoder != nil {
			s.decoder = decoder
		}
	}
}

// WithGateway enables Login and SignUp.
func WithGateway(gw gateway.Gateway) Option {
	return func(s *Store) {
		s.gateway = gw
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithNowTime sets the clock used for expiry checks.
func WithNowTime(nowTime func() time.Time) Option {
	return func(s *Store) {
		if nowTime != nil {
			s.nowTime = nowTime
		}
	}
}

// New creates a logged-out store backed by tokenStorage. Call
// InitializeFromStorage to pick up a persisted session.
func New(tokenStorage storage.TokenStorage, opts ...Option) (*Store, error) {
	if tokenStorage == nil {
		return nil, fmt.Errorf("[session.New] token storage is required")
	}

	s := &Store{
		storage:  tokenStorage,
		decoder:  token.Unverified,
		logger:   log.Logger,
		nowTime:  time.Now,
		user:     observable.NewSubject[*token.Claims](nil),
		fullName: observable.NewSubject(""),
		email:    observable.NewSubject(""),
		role:     observable.NewSubject(""),
		state:    observable.NewSubject(State{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// InitializeFromStorage restores the session from a persisted token. A token
// that cannot be read or decoded is discarded and the store stays logged out;
// the failure is logged, never returned.
func (s *Store) InitializeFromStorage(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.storage.Get(ctx)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("reading stored token, continuing logged out")
			s.logoutLocked(ctx)
			return
		}
		if s.claims.Load() != nil {
			s.publishLocked(nil)
		}
		return
	}

	claims, err := s.decoder.Decode(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("error initializing from token, logging out")
		s.logoutLocked(ctx)
		return
	}
	s.publishLocked(claims)
}

// ApplyToken decodes raw, persists it and publishes the derived fields before
// returning. A token that does not decode is rejected with a *token.DecodeError
// and nothing is changed. Any login or signup still in flight is superseded.
func (s *Store) ApplyToken(ctx context.Context, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation.Add(1)
	return s.applyLocked(ctx, raw)
}

// applyLocked stores raw without surrounding whitespace, which is not part of
// the token and cannot be sent in a header.
func (s *Store) applyLocked(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	claims, err := s.decoder.Decode(raw)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, raw); err != nil {
		return errors.Wrap(err, "persisting token")
	}
	s.publishLocked(claims)
	return nil
}

// Logout removes the persisted token and resets every field. It is
// idempotent and never fails; storage errors are logged. Responses to
// requests started before the logout are discarded.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logoutLocked(ctx)
}

func (s *Store) logoutLocked(ctx context.Context) {
	s.generation.Add(1)
	if err := s.storage.Remove(ctx); err != nil {
		s.logger.Error().Err(err).Msg("removing stored token")
	}
	s.publishLocked(nil)
}

// publishLocked stores claims and sets every stream before notifying any
// subscriber, so a callback reading a sibling stream sees the same token.
func (s *Store) publishLocked(claims *token.Claims) {
	s.claims.Store(claims)

	c := utils.Value(claims)
	deliveries := []func(){
		s.user.Stage(claims),
		s.fullName.Stage(c.Name),
		s.email.Stage(c.Email),
		s.role.Stage(c.Role),
		s.state.Stage(State{
			User:     claims,
			FullName: c.Name,
			Email:    c.Email,
			Role:     c.Role,
		}),
	}
	for _, deliver := range deliveries {
		deliver()
	}
}

// IsAuthenticated re-reads and re-decodes the stored token on every call. It
// is true only when a token is present, decodes and has not expired. Any
// doubt answers false.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	raw, err := s.storage.Get(ctx)
	if err != nil {
		return false
	}
	claims, err := s.decoder.Decode(raw)
	if err != nil {
		return false
	}
	return !claims.IsExpired(s.nowTime())
}

// CurrentClaims returns the claims of the last applied token, or nil when
// logged out. The result must not be modified.
func (s *Store) CurrentClaims() *token.Claims {
	return s.claims.Load()
}

// AuthorizationHeaderValue returns "Bearer <token>" whenever a token is
// stored, expired or not. Callers wanting a valid session check
// IsAuthenticated first.
func (s *Store) AuthorizationHeaderValue(ctx context.Context) (string, bool) {
	raw, err := s.storage.Get(ctx)
	if err != nil || raw == "" {
		return "", false
	}
	return bearerPrefix + raw, true
}

// Snapshot returns the current identity fields.
func (s *Store) Snapshot() State {
	return s.state.Value()
}

// User, FullName, Email and Role replay the latest value to new subscribers.
// All four already hold the new token's values when any callback runs.
// Callbacks must not subscribe to another stream of the same store.
func (s *Store) User() observable.Observable[*token.Claims] {
	return s.user
}

func (s *Store) FullName() observable.Observable[string] {
	return s.fullName
}

func (s *Store) Email() observable.Observable[string] {
	return s.email
}

func (s *Store) Role() observable.Observable[string] {
	return s.role
}

// States publishes a State after every change, so subscribers never see
// fields from two different tokens.
func (s *Store) States() observable.Observable[State] {
	return s.state
}
