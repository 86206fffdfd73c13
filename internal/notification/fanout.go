// Package notification stores in-app notifications, fans them out to
// admins and pushes them to subscribed browsers.
package notification

import (
	"context"
	"errors"
	"fmt"

	"hotel-booking-backend/internal/model"
)

// Store is the part of store.Store the fan-out service needs.
type Store interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	ListAdmins(ctx context.Context) ([]model.Admin, error)
	ListNotifications(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID string) (int64, error)
	MarkNotificationRead(ctx context.Context, userID, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// Pusher delivers a stored notification to the user's browsers.
type Pusher interface {
	Dispatch(job Job)
}

// Service appends notifications for admins and guests. A guest's user id is
// their booking id.
type Service struct {
	store  Store
	pusher Pusher
}

// NewService creates the fan-out service. pusher may be nil.
func NewService(st Store, pusher Pusher) *Service {
	return &Service{store: st, pusher: pusher}
}

// Notify appends one unread notification for userID.
func (s *Service) Notify(ctx context.Context, userID, message, href string) error {
	n := &model.Notification{UserID: userID, Message: message, Href: href}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("notify %s: %w", userID, err)
	}
	if s.pusher != nil {
		s.pusher.Dispatch(Job{UserID: userID, Message: message, Href: href})
	}
	return nil
}

// NotifyAllAdmins notifies every admin. Delivery is not atomic: a failure
// for one admin does not stop the others, and the failures are returned
// together.
func (s *Service) NotifyAllAdmins(ctx context.Context, message, href string) error {
	admins, err := s.store.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	var errs []error
	for _, admin := range admins {
		if err := s.Notify(ctx, admin.ID, message, href); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Inbox is a user's recent notifications plus their unread count.
type Inbox struct {
	Notifications []model.Notification `json:"notifications"`
	Unread        int64                `json:"unread"`
}

// Inbox returns userID's newest notifications, newest first.
func (s *Service) Inbox(ctx context.Context, userID string, limit int) (*Inbox, error) {
	list, err := s.store.ListNotifications(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	unread, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Notification{}
	}
	return &Inbox{Notifications: list, Unread: unread}, nil
}

// MarkRead flags one of userID's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return s.store.MarkNotificationRead(ctx, userID, id)
}

// MarkAllReadForUser flags all of userID's notifications as read.
func (s *Service) MarkAllReadForUser(ctx context.Context, userID string) error {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}
