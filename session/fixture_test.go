package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/gateway"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/observable"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/storage"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const testSecret = "session-test-secret"

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeGateway answers Login and SignUp from preset values. When hold is set
// each call blocks until the test releases it.
type fakeGateway struct {
	mu        sync.Mutex
	token     string
	err       error
	hold      bool
	started   chan struct{}
	release   chan string
	lastCreds gateway.Credentials
	lastReg   gateway.Registration
	calls     int
}

func (g *fakeGateway) respond(ctx context.Context) (string, error) {
	g.mu.Lock()
	g.calls++
	hold, tok, err := g.hold, g.token, g.err
	g.mu.Unlock()

	if !hold {
		return tok, err
	}
	g.started <- struct{}{}
	select {
	case tok := <-g.release:
		return tok, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (g *fakeGateway) Login(ctx context.Context, creds gateway.Credentials) (string, error) {
	g.mu.Lock()
	g.lastCreds = creds
	g.mu.Unlock()
	return g.respond(ctx)
}

func (g *fakeGateway) SignUp(ctx context.Context, reg gateway.Registration) (string, error) {
	g.mu.Lock()
	g.lastReg = reg
	g.mu.Unlock()
	return g.respond(ctx)
}

// failingStorage fails every operation.
type failingStorage struct{}

func (failingStorage) Get(context.Context) (string, error) {
	return "", errors.Join(apperrors.ErrStorage, errors.New("disk on fire"))
}

func (failingStorage) Set(context.Context, string) error {
	return errors.Join(apperrors.ErrStorage, errors.New("disk on fire"))
}

func (failingStorage) Remove(context.Context) error {
	return errors.Join(apperrors.ErrStorage, errors.New("disk on fire"))
}

type testFixture struct {
	ctx     context.Context
	clock   *fakeClock
	storage *storage.Memory
	gateway *fakeGateway
	creator *token.Creator
	store   *session.Store
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		ctx:     context.Background(),
		clock:   newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		storage: storage.NewMemory(),
		gateway: &fakeGateway{started: make(chan struct{}, 4), release: make(chan string, 4)},
		creator: token.NewCreator(token.NewHMACSigner(testSecret), time.Hour),
	}

	store, err := session.New(f.storage,
		session.WithGateway(f.gateway),
		session.WithNowTime(f.clock.Now),
		session.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)
	f.store = store
	return f
}

// mint signs a token for the given identity expiring ttl after the fake now.
func (f *testFixture) mint(t *testing.T, name, email, role string, ttl time.Duration) (string, token.Claims) {
	t.Helper()
	now := f.clock.Now().Truncate(time.Second)
	claims := token.Claims{
		Subject:   "user-" + email,
		Name:      name,
		Email:     email,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	raw, err := f.creator.Sign(claims)
	require.NoError(t, err)
	return raw, claims
}

// recorder collects every value a stream emits.
type recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

func record[T any](t *testing.T, o observable.Observable[T]) *recorder[T] {
	t.Helper()
	r := &recorder[T]{}
	unsubscribe := o.Subscribe(func(v T) {
		r.mu.Lock()
		r.values = append(r.values, v)
		r.mu.Unlock()
	})
	t.Cleanup(unsubscribe)
	return r
}

func (r *recorder[T]) all() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

func (r *recorder[T]) last() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[len(r.values)-1]
}
