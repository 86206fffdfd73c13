// Package auth logs guests in by booking identity and admins by
// credential, and manages admin accounts and profiles.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"hotel-booking-backend/internal/apperr"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/session"
	"hotel-booking-backend/internal/store"
)

const (
	guestHome = "/dashboard"
	adminHome = "/dashboard/admin"

	msgInvalidCredentials = "Invalid credentials."
	msgNoGuestBooking     = "No confirmed or pending booking found with these details. Please check your information or contact support."
)

// Store is the part of store.Store the auth service needs.
type Store interface {
	FindBookingForLogin(ctx context.Context, guestName, guestIDNumber, phoneNumber string) (*model.Booking, error)
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	UpdateBookingAvatar(ctx context.Context, id, avatar string) error
	FindAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetAdmin(ctx context.Context, id string) (*model.Admin, error)
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	UpdateAdmin(ctx context.Context, id string, update store.AdminUpdate) error
}

// Sessions mints sessions after a successful login.
type Sessions interface {
	Create(ctx context.Context, subjectID string, role model.Role, email string) (string, *session.Session, error)
}

// Service implements guest and admin authentication.
type Service struct {
	store      Store
	sessions   Sessions
	inviteCode string
	cost       int
	dummyHash  []byte
}

// NewService creates the auth service. inviteCode gates admin registration;
// an empty code disables registration.
func NewService(st Store, sessions Sessions, inviteCode string, bcryptCost int) (*Service, error) {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	// Compared against when an email is unknown so both failure paths cost
	// one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare password hashing: %w", err)
	}
	return &Service{
		store:      st,
		sessions:   sessions,
		inviteCode: inviteCode,
		cost:       bcryptCost,
		dummyHash:  dummy,
	}, nil
}

// Login is the outcome of a successful login or registration.
type Login struct {
	Token    string           `json:"-"`
	Session  *session.Session `json:"-"`
	Redirect string           `json:"redirect"`
}

type GuestLoginInput struct {
	GuestName     string `json:"guestName" validate:"required"`
	GuestIDNumber string `json:"guestIdNumber" validate:"required"`
	PhoneNumber   string `json:"phoneNumber" validate:"required"`
}

var guestLoginMessages = apperr.Messages{
	"guestName":     "Guest name is required.",
	"guestIdNumber": "ID number is required.",
	"phoneNumber":   "Phone number is required.",
}

// ResolveGuestLogin returns the Pending or Confirmed booking matching all
// three fields, or nil when there is none.
func (s *Service) ResolveGuestLogin(ctx context.Context, guestName, guestIDNumber, phoneNumber string) (*model.Booking, error) {
	booking, err := s.store.FindBookingForLogin(ctx, strings.TrimSpace(guestName), strings.TrimSpace(guestIDNumber), strings.TrimSpace(phoneNumber))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Upstream("", fmt.Errorf("find booking for guest login: %w", err))
	}
	return booking, nil
}

// GuestLogin starts a guest session whose subject is the matched booking.
func (s *Service) GuestLogin(ctx context.Context, in GuestLoginInput) (*Login, error) {
	if err := apperr.Check(in, guestLoginMessages); err != nil {
		return nil, err
	}
	booking, err := s.ResolveGuestLogin(ctx, in.GuestName, in.GuestIDNumber, in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.Unauthorized(msgNoGuestBooking)
	}
	return s.start(ctx, booking.ID, model.RoleGuest, "", guestHome)
}

type AdminLoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var adminLoginMessages = apperr.Messages{
	"email":    "Invalid email address.",
	"password": "Password is required.",
}

// AdminLogin checks an admin's email and password. Unknown email and wrong
// password fail identically.
func (s *Service) AdminLogin(ctx context.Context, in AdminLoginInput) (*Login, error) {
	if err := apperr.Check(in, adminLoginMessages); err != nil {
		return nil, err
	}

	admin, err := s.store.FindAdminByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Upstream("", fmt.Errorf("find admin: %w", err))
	}
	if admin == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	return s.start(ctx, admin.ID, model.RoleAdmin, admin.Email, adminHome)
}

type RegisterInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"min=8"`
	Name       string `json:"name"`
	SecretCode string `json:"secretCode"`
}

var registerMessages = apperr.Messages{
	"email":    "Invalid email address.",
	"password": "Password must be at least 8 characters.",
}

// Register creates an admin account and logs it in. The invite code is one
// shared secret for every prospective admin.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Login, error) {
	if err := apperr.Check(in, registerMessages); err != nil {
		return nil, err
	}
	if s.inviteCode == "" || subtle.ConstantTimeCompare([]byte(in.SecretCode), []byte(s.inviteCode)) != 1 {
		return nil, apperr.Validation("secretCode", "Invalid secret code.")
	}

	admin, err := s.createAdmin(ctx, in.Email, in.Password, in.Name)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, admin.ID, model.RoleAdmin, admin.Email, adminHome)
}

// EnsureAdmin creates the admin unless one with that email already exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) error {
	_, err := s.store.FindAdminByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("find admin: %w", err)
	}
	if _, err := s.createAdmin(ctx, email, password, name); err != nil {
		return err
	}
	return nil
}

func (s *Service) createAdmin(ctx context.Context, email, password, name string) (*model.Admin, error) {
	if _, err := s.store.FindAdminByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("email", "An admin with this email already exists.")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Upstream("", fmt.Errorf("find admin: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Admin"
	}
	admin := &model.Admin{Email: email, PasswordHash: string(hash), Name: name}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Validation("email", "An admin with this email already exists.")
		}
		return nil, apperr.Upstream("", fmt.Errorf("create admin: %w", err))
	}
	return admin, nil
}

func (s *Service) start(ctx context.Context, subjectID string, role model.Role, email, redirect string) (*Login, error) {
	token, sess, err := s.sessions.Create(ctx, subjectID, role, email)
	if err != nil {
		return nil, apperr.Upstream("", err)
	}
	return &Login{Token: token, Session: sess, Redirect: redirect}, nil
}
