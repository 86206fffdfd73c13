package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"hotel-booking-backend/internal/apperr"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/session"
	"hotel-booking-backend/internal/store"
)

// Profile is what the UI shows about the logged-in principal.
type Profile struct {
	Role   model.Role `json:"role"`
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email,omitempty"`
	Avatar string     `json:"avatar,omitempty"`
}

// Profile loads the principal behind sess. For guests this is their booking.
func (s *Service) Profile(ctx context.Context, sess *session.Session) (*Profile, error) {
	if sess == nil {
		return nil, apperr.Unauthorized("")
	}
	if sess.IsAdmin() {
		admin, err := s.store.GetAdmin(ctx, sess.SubjectID)
		if err != nil {
			return nil, lookupErr("Admin", err)
		}
		return &Profile{Role: model.RoleAdmin, ID: admin.ID, Name: admin.Name, Email: admin.Email, Avatar: admin.Avatar}, nil
	}
	booking, err := s.store.GetBooking(ctx, sess.SubjectID)
	if err != nil {
		return nil, lookupErr("Booking", err)
	}
	return &Profile{Role: model.RoleGuest, ID: booking.ID, Name: booking.GuestName, Avatar: booking.Avatar}, nil
}

type ProfileInput struct {
	Name            string  `json:"name"`
	Avatar          *string `json:"avatar"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
	ConfirmPassword string  `json:"confirmPassword"`
}

// UpdateProfile changes the caller's profile. Admins may change name,
// avatar and password; guests only the avatar on their booking, since
// their name is part of their login.
func (s *Service) UpdateProfile(ctx context.Context, sess *session.Session, in ProfileInput) error {
	if sess == nil {
		return apperr.Unauthorized("Unauthorized.")
	}
	if in.Avatar != nil {
		*in.Avatar = strings.TrimSpace(*in.Avatar)
		if *in.Avatar != "" {
			if err := apperr.CheckVar(*in.Avatar, "url", "avatar", "Please enter a valid image URL."); err != nil {
				return err
			}
		}
	}

	if sess.IsGuest() {
		if in.Avatar == nil {
			return nil
		}
		if err := s.store.UpdateBookingAvatar(ctx, sess.SubjectID, *in.Avatar); err != nil {
			return lookupErr("Booking", err)
		}
		return nil
	}

	update, err := s.adminUpdate(ctx, sess, in)
	if err != nil {
		return err
	}
	if err := s.store.UpdateAdmin(ctx, sess.SubjectID, update); err != nil {
		return lookupErr("Admin", err)
	}
	return nil
}

func (s *Service) adminUpdate(ctx context.Context, sess *session.Session, in ProfileInput) (store.AdminUpdate, error) {
	var update store.AdminUpdate

	name := strings.TrimSpace(in.Name)
	if len(name) < 2 {
		return update, apperr.Validation("name", "Name must be at least 2 characters.")
	}
	update.Name = &name
	update.Avatar = in.Avatar

	if in.NewPassword != in.ConfirmPassword {
		return update, apperr.Validation("confirmPassword", "New passwords do not match.")
	}
	if in.NewPassword == "" {
		return update, nil
	}
	if len(in.NewPassword) < 8 {
		return update, apperr.Validation("newPassword", "New password must be at least 8 characters.")
	}
	if in.CurrentPassword == "" {
		return update, apperr.Validation("currentPassword", "Current password is required to set a new one.")
	}

	admin, err := s.store.GetAdmin(ctx, sess.SubjectID)
	if err != nil {
		return update, lookupErr("Admin", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return update, apperr.Validation("currentPassword", "Incorrect current password.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.cost)
	if err != nil {
		return update, fmt.Errorf("hash password: %w", err)
	}
	h := string(hash)
	update.PasswordHash = &h
	return update, nil
}

func lookupErr(what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(what)
	}
	return apperr.Upstream("", fmt.Errorf("load %s: %w", strings.ToLower(what), err))
}
