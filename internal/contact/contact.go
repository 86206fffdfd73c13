// Package contact handles messages sent through the public contact form.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"hotel-booking-backend/internal/apperr"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/session"
	"hotel-booking-backend/internal/store"
)

const adminMessagesHref = "/dashboard/admin?tab=messages"

type Store interface {
	CreateContactMessage(ctx context.Context, msg *model.ContactMessage) error
	ListContactMessages(ctx context.Context) ([]model.ContactMessage, error)
	MarkContactMessageRead(ctx context.Context, id string) error
}

type Notifier interface {
	NotifyAllAdmins(ctx context.Context, message, href string) error
}

type Service struct {
	store    Store
	notifier Notifier
}

func NewService(st Store, notifier Notifier) *Service {
	return &Service{store: st, notifier: notifier}
}

type Input struct {
	Name    string `json:"name" validate:"min=2"`
	Email   string `json:"email" validate:"email"`
	Message string `json:"message" validate:"min=10"`
}

var messages = apperr.Messages{
	"name":    "Name must be at least 2 characters.",
	"email":   "Please enter a valid email address.",
	"message": "Message must be at least 10 characters.",
}

// Submit stores a contact message and tells every admin about it.
func (s *Service) Submit(ctx context.Context, in Input) (*model.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	if err := apperr.Check(in, messages); err != nil {
		return nil, err
	}

	msg := &model.ContactMessage{Name: in.Name, Email: in.Email, Message: in.Message}
	if err := s.store.CreateContactMessage(ctx, msg); err != nil {
		return nil, apperr.Upstream("", err)
	}

	note := fmt.Sprintf("New message from %s.", msg.Name)
	if err := s.notifier.NotifyAllAdmins(ctx, note, adminMessagesHref); err != nil {
		log.Printf("notify admins of contact message %s: %v", msg.ID, err)
	}
	return msg, nil
}

// Inbox is the admin view of contact messages.
type Inbox struct {
	Messages []model.ContactMessage `json:"messages"`
	Unread   int                    `json:"unread"`
}

// List returns every contact message, newest first. Admins only.
func (s *Service) List(ctx context.Context, sess *session.Session) (*Inbox, error) {
	if !sess.IsAdmin() {
		return nil, apperr.Unauthorized("")
	}
	msgs, err := s.store.ListContactMessages(ctx)
	if err != nil {
		return nil, apperr.Upstream("", err)
	}
	inbox := &Inbox{Messages: msgs}
	if inbox.Messages == nil {
		inbox.Messages = []model.ContactMessage{}
	}
	for _, m := range msgs {
		if !m.IsRead {
			inbox.Unread++
		}
	}
	return inbox, nil
}

// MarkRead flags a message as read. Admins only.
func (s *Service) MarkRead(ctx context.Context, sess *session.Session, id string) error {
	if !sess.IsAdmin() {
		return apperr.Unauthorized("")
	}
	if err := s.store.MarkContactMessageRead(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Message")
		}
		return apperr.Upstream("", err)
	}
	return nil
}
