package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/store"
)

// Store is the part of store.Store the session manager needs.
type Store interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	ExtendSession(ctx context.Context, id string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Session is a resolved, currently valid login.
type Session struct {
	ID        string
	Role      model.Role
	SubjectID string // admin id or booking id
	Email     string
	ExpiresAt time.Time
}

// IsAdmin reports whether the session belongs to an admin.
func (s *Session) IsAdmin() bool { return s != nil && s.Role == model.RoleAdmin }

// IsGuest reports whether the session belongs to a guest.
func (s *Session) IsGuest() bool { return s != nil && s.Role == model.RoleGuest }

type claims struct {
	Role  model.Role `json:"role"`
	Email string     `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Manager mints, resolves and revokes sessions. A token is an HS256 JWT
// naming a server-side session row; both must be valid for the session to
// resolve.
type Manager struct {
	store   Store
	secret  []byte
	ttl     time.Duration
	sliding bool
	now     func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithSliding enables renewal of sessions past half their lifetime.
func WithSliding(enabled bool) Option {
	return func(m *Manager) { m.sliding = enabled }
}

// NewManager creates a session manager. secret must not be empty.
func NewManager(st Store, secret string, ttl time.Duration, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session secret is not set")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid session ttl %s", ttl)
	}
	m := &Manager{
		store:  st,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// TTL returns the lifetime of a fresh session.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create starts a session for subjectID and returns its token.
func (m *Manager) Create(ctx context.Context, subjectID string, role model.Role, email string) (string, *Session, error) {
	now := m.now().UTC()
	row := &model.Session{
		ID:        uuid.NewString(),
		Role:      role,
		SubjectID: subjectID,
		Email:     email,
		ExpiresAt: now.Add(m.ttl).Truncate(time.Second),
		CreatedAt: now,
	}
	if err := m.store.CreateSession(ctx, row); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	sess := fromRow(row)
	token, err := m.sign(sess, now)
	if err != nil {
		return "", nil, err
	}
	return token, sess, nil
}

// Resolve returns the session named by token, or nil when the token is
// missing, malformed, tampered with, expired or revoked.
func (m *Manager) Resolve(ctx context.Context, token string) *Session {
	c := m.parse(token)
	if c == nil {
		return nil
	}

	row, err := m.store.GetSession(ctx, c.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("resolve session %s: %v", c.ID, err)
		}
		return nil
	}
	if row.Role != c.Role || row.SubjectID != c.Subject {
		return nil
	}
	if !m.now().Before(row.ExpiresAt) {
		return nil
	}
	return fromRow(row)
}

// Refresh extends sess when sliding expiry is enabled and less than half of
// its lifetime remains. It returns the new token, or "" if nothing changed.
// Expiry only ever moves forward.
func (m *Manager) Refresh(ctx context.Context, sess *Session) (string, error) {
	if !m.sliding || sess == nil {
		return "", nil
	}
	now := m.now().UTC()
	if !now.Before(sess.ExpiresAt) || sess.ExpiresAt.Sub(now) > m.ttl/2 {
		return "", nil
	}

	expiresAt := now.Add(m.ttl).Truncate(time.Second)
	if err := m.store.ExtendSession(ctx, sess.ID, expiresAt); err != nil {
		return "", fmt.Errorf("refresh session: %w", err)
	}
	sess.ExpiresAt = expiresAt
	return m.sign(sess, now)
}

// Destroy revokes the session named by token. Unknown, invalid or already
// destroyed tokens are not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	c := m.parse(token)
	if c == nil {
		return nil
	}
	if err := m.store.DeleteSession(ctx, c.ID); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func (m *Manager) sign(sess *Session, now time.Time) (string, error) {
	c := claims{
		Role:  sess.Role,
		Email: sess.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (m *Manager) parse(token string) *claims {
	if token == "" {
		return nil
	}
	t, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil
	}
	c, ok := t.Claims.(*claims)
	if !ok || !t.Valid || c.ID == "" || c.Subject == "" {
		return nil
	}
	return c
}

func fromRow(row *model.Session) *Session {
	return &Session{
		ID:        row.ID,
		Role:      row.Role,
		SubjectID: row.SubjectID,
		Email:     row.Email,
		ExpiresAt: row.ExpiresAt,
	}
}
