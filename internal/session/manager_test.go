package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

// memStore is an in-memory implementation of Store.
type memStore struct {
	mu   sync.Mutex
	rows map[string]model.Session
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]model.Session)}
}

func (m *memStore) CreateSession(ctx context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = *s
	return nil
}

func (m *memStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (m *memStore) ExtendSession(ctx context.Context, id string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if ok && s.ExpiresAt.Before(expiresAt) {
		s.ExpiresAt = expiresAt
		m.rows[id] = s
	}
	return nil
}

func (m *memStore) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.rows {
		if !s.ExpiresAt.After(now) {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *memStore, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	st := newMemStore()
	m, err := NewManager(st, "test-secret", 24*time.Hour, append([]Option{WithClock(clk.Now)}, opts...)...)
	require.NoError(t, err)
	return m, st, clk
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager(newMemStore(), "", time.Hour)
	assert.Error(t, err)
}

func TestManager_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	token, created, err := m.Create(ctx, "admin-1", model.RoleAdmin, "boss@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess := m.Resolve(ctx, token)
	require.NotNil(t, sess)
	assert.Equal(t, "admin-1", sess.SubjectID)
	assert.Equal(t, model.RoleAdmin, sess.Role)
	assert.Equal(t, "boss@example.com", sess.Email)
	assert.Equal(t, created.ID, sess.ID)
	assert.True(t, sess.IsAdmin())
	assert.False(t, sess.IsGuest())
}

func TestManager_ResolveRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	m, _, clk := newTestManager(t)

	token, _, err := m.Create(ctx, "booking-1", model.RoleGuest, "")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Forge an admin payload signed with a different key.
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "whatever",
			Subject:   "booking-1",
			ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("attacker"))
	require.NoError(t, err)

	// Same session id, elevated role, signed with none.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "whatever",
			Subject:   "booking-1",
			ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "tampered payload", token: parts[0] + "." + parts[1] + "x." + parts[2]},
		{name: "tampered signature", token: parts[0] + "." + parts[1] + "." + strings.ToUpper(parts[2])},
		{name: "foreign key", token: forged},
		{name: "alg none", token: unsigned},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Nil(t, m.Resolve(ctx, tc.token))
			})
		})
	}
}

func TestManager_ResolveExpired(t *testing.T) {
	ctx := context.Background()
	m, _, clk := newTestManager(t)

	token, _, err := m.Create(ctx, "admin-1", model.RoleAdmin, "")
	require.NoError(t, err)

	clk.Advance(23 * time.Hour)
	assert.NotNil(t, m.Resolve(ctx, token))

	clk.Advance(time.Hour)
	assert.Nil(t, m.Resolve(ctx, token))
}

func TestManager_DestroyIsImmediateAndIdempotent(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	token, _, err := m.Create(ctx, "admin-1", model.RoleAdmin, "")
	require.NoError(t, err)
	require.NotNil(t, m.Resolve(ctx, token))

	require.NoError(t, m.Destroy(ctx, token))
	assert.Nil(t, m.Resolve(ctx, token), "a destroyed token must not resolve before it expires")

	assert.NoError(t, m.Destroy(ctx, token))
	assert.NoError(t, m.Destroy(ctx, "garbage"))
	assert.NoError(t, m.Destroy(ctx, ""))
}

func TestManager_RefreshIsMonotonic(t *testing.T) {
	ctx := context.Background()
	m, st, clk := newTestManager(t, WithSliding(true))

	token, _, err := m.Create(ctx, "admin-1", model.RoleAdmin, "")
	require.NoError(t, err)

	// Early in the lifetime nothing changes.
	sess := m.Resolve(ctx, token)
	require.NotNil(t, sess)
	renewed, err := m.Refresh(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, renewed)

	clk.Advance(20 * time.Hour)
	sess = m.Resolve(ctx, token)
	require.NotNil(t, sess)
	before := sess.ExpiresAt

	renewed, err = m.Refresh(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, renewed)
	assert.True(t, sess.ExpiresAt.After(before))

	row, err := st.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, row.ExpiresAt.Equal(sess.ExpiresAt))

	// The renewed token outlives the original one.
	clk.Advance(10 * time.Hour)
	assert.Nil(t, m.Resolve(ctx, token))
	assert.NotNil(t, m.Resolve(ctx, renewed))
}

func TestManager_RefreshDoesNotResurrect(t *testing.T) {
	ctx := context.Background()
	m, st, clk := newTestManager(t, WithSliding(true))

	_, sess, err := m.Create(ctx, "admin-1", model.RoleAdmin, "")
	require.NoError(t, err)

	clk.Advance(25 * time.Hour)
	renewed, err := m.Refresh(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, renewed)

	row, err := st.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, row.ExpiresAt.Before(clk.Now()))
}

func TestManager_RefreshDisabled(t *testing.T) {
	ctx := context.Background()
	m, _, clk := newTestManager(t)

	_, sess, err := m.Create(ctx, "admin-1", model.RoleAdmin, "")
	require.NoError(t, err)

	clk.Advance(23 * time.Hour)
	renewed, err := m.Refresh(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, renewed)
}

func TestSweeper_SweepOnce(t *testing.T) {
	ctx := context.Background()
	m, st, clk := newTestManager(t)

	_, old, err := m.Create(ctx, "admin-1", model.RoleAdmin, "")
	require.NoError(t, err)
	clk.Advance(25 * time.Hour)
	_, fresh, err := m.Create(ctx, "admin-2", model.RoleAdmin, "")
	require.NoError(t, err)

	sw := NewSweeper(st, time.Minute)
	sw.now = clk.Now
	sw.SweepOnce(ctx)

	_, err = st.GetSession(ctx, old.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.GetSession(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sw := NewSweeper(newMemStore(), time.Millisecond)

	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
