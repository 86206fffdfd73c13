package textgen

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hotel-booking-backend/internal/apperr"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/session"
)

const (
	msgAssistantUnavailable = "The AI assistant is currently unavailable. Please try again later."
	msgDescriptionFailed    = "Failed to generate description. Please try again."
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Store interface {
	ListRooms(ctx context.Context) ([]model.Room, error)
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
}

// Assistant builds prompts from hotel data and turns generation failures
// into user-facing messages. Nothing in the booking or login flows waits
// on it.
type Assistant struct {
	gen   Generator
	store Store
}

func NewAssistant(gen Generator, st Store) *Assistant {
	return &Assistant{gen: gen, store: st}
}

type DescriptionInput struct {
	RoomName string `json:"roomName" validate:"min=2"`
}

// RoomDescription drafts marketing copy for a room. Admins only.
func (a *Assistant) RoomDescription(ctx context.Context, sess *session.Session, in DescriptionInput) (string, error) {
	if !sess.IsAdmin() {
		return "", apperr.Unauthorized("")
	}
	in.RoomName = strings.TrimSpace(in.RoomName)
	if err := apperr.Check(in, apperr.Messages{"roomName": "Please enter a room name first."}); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are a professional copywriter for a luxury hotel called "Gift Inn".
Write a compelling, professional and appealing description of about 4-5 sentences for the hotel room named %q.`, in.RoomName)
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("generate room description: %v", err)
		return "", apperr.Upstream(msgDescriptionFailed, err)
	}
	return text, nil
}

type RecommendationInput struct {
	PastBehavior string `json:"pastBehavior"`
	Preferences  string `json:"preferences" validate:"required"`
}

// Recommendations suggests rooms and services for a visitor.
func (a *Assistant) Recommendations(ctx context.Context, in RecommendationInput) (string, error) {
	in.PastBehavior = strings.TrimSpace(in.PastBehavior)
	in.Preferences = strings.TrimSpace(in.Preferences)
	if err := apperr.Check(in, apperr.Messages{"preferences": "Tell us a little about what you are looking for."}); err != nil {
		return "", err
	}

	rooms, err := a.store.ListRooms(ctx)
	if err != nil {
		log.Printf("list rooms for recommendations: %v", err)
		return "", apperr.Upstream(msgAssistantUnavailable, err)
	}

	past := in.PastBehavior
	if past == "" {
		past = "none"
	}
	prompt := fmt.Sprintf(`You are a hotel concierge expert.
Based on the user's past behavior: %s,
stated preferences: %s,
and available rooms/services:
%s
generate personalized recommendations that best suit their needs and explain why you recommend each room or service.`,
		past, in.Preferences, catalogSummary(rooms))

	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("generate recommendations: %v", err)
		return "", apperr.Upstream(msgAssistantUnavailable, err)
	}
	return text, nil
}

type BookingQuestion struct {
	Query string `json:"query" validate:"required"`
}

// BookingAnswer answers a question using only the caller's own bookings.
func (a *Assistant) BookingAnswer(ctx context.Context, sess *session.Session, in BookingQuestion) (string, error) {
	if sess == nil {
		return "", apperr.Unauthorized("")
	}
	in.Query = strings.TrimSpace(in.Query)
	if err := apperr.Check(in, apperr.Messages{"query": "Please enter a question."}); err != nil {
		return "", err
	}

	var bookings []model.Booking
	if sess.IsGuest() {
		own, err := a.store.GetBooking(ctx, sess.SubjectID)
		if err == nil {
			bookings = append(bookings, *own)
		} else {
			log.Printf("load booking %s for assistant: %v", sess.SubjectID, err)
		}
	}

	prompt := fmt.Sprintf(`You are a friendly and helpful hotel concierge AI for the "Gift Inn".
Answer the user's question based only on the booking information below. If the booking they ask about is not listed, say you cannot find it. Do not make up any information.

User's question:
%q

Booking data:
%s`, in.Query, bookingSummary(bookings))

	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("generate booking answer: %v", err)
		return "", apperr.Upstream(msgAssistantUnavailable, err)
	}
	return text, nil
}

func catalogSummary(rooms []model.Room) string {
	if len(rooms) == 0 {
		return "- No rooms listed."
	}
	var b strings.Builder
	for _, r := range rooms {
		fmt.Fprintf(&b, "- %s ($%.2f per night): %s\n", r.Name, r.Price, r.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func bookingSummary(bookings []model.Booking) string {
	if len(bookings) == 0 {
		return "- No bookings found."
	}
	var b strings.Builder
	for _, bk := range bookings {
		fmt.Fprintf(&b, "- Room Name: %s\n- Status: %s\n- Check-in: %s\n- Check-out: %s\n",
			bk.RoomName, bk.Status, bk.CheckIn.Format("2006-01-02"), bk.CheckOut.Format("2006-01-02"))
	}
	return strings.TrimRight(b.String(), "\n")
}
