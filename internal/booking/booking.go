// Package booking implements the booking workflow: submission with
// conflict detection, admin status changes and guest cancellation.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"hotel-booking-backend/internal/apperr"
	"hotel-booking-backend/internal/availability"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/parse"
	"hotel-booking-backend/internal/session"
	"hotel-booking-backend/internal/store"
)

const (
	adminBookingsHref = "/dashboard/admin?tab=bookings"
	guestHref         = "/dashboard"
)

// Store is the part of store.Store the booking workflow needs.
type Store interface {
	GetRoom(ctx context.Context, id string) (*model.Room, error)
	CreateBookingIfAvailable(ctx context.Context, booking *model.Booking) error
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	ListBookings(ctx context.Context, filter store.BookingFilter) ([]model.Booking, error)
	ListActiveBookingsForRoom(ctx context.Context, roomID string, from, to time.Time) ([]model.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, bool, error)
}

// Notifier delivers in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, userID, message, href string) error
	NotifyAllAdmins(ctx context.Context, message, href string) error
}

// Service runs the booking workflow.
type Service struct {
	store    Store
	notifier Notifier
	engine   *availability.Engine
	loc      *time.Location
	locks    *roomLocks
	now      func() time.Time
}

// NewService creates the booking service. Calendar dates are interpreted in
// loc.
func NewService(st Store, notifier Notifier, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:    st,
		notifier: notifier,
		engine:   availability.NewEngine(st),
		loc:      loc,
		locks:    newRoomLocks(),
		now:      time.Now,
	}
}

type SubmitInput struct {
	RoomID        string `json:"roomId" validate:"required"`
	GuestName     string `json:"guestName" validate:"min=2"`
	GuestIDNumber string `json:"guestIdNumber" validate:"min=4"`
	PhoneNumber   string `json:"phoneNumber" validate:"min=10"`
	CheckIn       string `json:"checkIn" validate:"required"`
	CheckOut      string `json:"checkOut" validate:"required"`
	// Total is the amount shown to the guest, if the client sends it.
	Total *float64 `json:"total,omitempty"`
}

var submitMessages = apperr.Messages{
	"roomId":        "Please select a room.",
	"guestName":     "Name must be at least 2 characters.",
	"guestIdNumber": "ID number seems too short.",
	"phoneNumber":   "Please enter a valid phone number.",
	"checkIn":       "Check-in date is required.",
	"checkOut":      "Check-out date is required.",
}

func (in *SubmitInput) normalize() {
	in.RoomID = strings.TrimSpace(in.RoomID)
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestIDNumber = strings.TrimSpace(in.GuestIDNumber)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
}

// Submit validates and stores a Pending booking, then tells every admin.
// Nothing is written when validation or the availability check fails.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*model.Booking, error) {
	in.normalize()
	if err := apperr.Check(in, submitMessages); err != nil {
		return nil, err
	}
	checkIn, checkOut, err := s.stayRange(in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, err
	}

	room, err := s.store.GetRoom(ctx, in.RoomID)
	if err != nil {
		return nil, lookupErr("Room", err)
	}

	total := Total(checkIn, checkOut, room.Price)
	if in.Total != nil && math.Abs(*in.Total-total) > 0.005 {
		return nil, apperr.Validation("total", "The booking total has changed. Please review your stay and submit again.")
	}

	unlock := s.locks.Lock(room.ID)
	defer unlock()

	conflicts, err := s.engine.FindConflicts(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return nil, apperr.Upstream("", err)
	}
	if len(conflicts) > 0 {
		return nil, apperr.RoomUnavailable()
	}

	booking := &model.Booking{
		RoomID:        room.ID,
		RoomName:      room.Name,
		GuestName:     in.GuestName,
		GuestIDNumber: in.GuestIDNumber,
		PhoneNumber:   in.PhoneNumber,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Status:        model.StatusPending,
		Total:         total,
	}
	if err := s.store.CreateBookingIfAvailable(ctx, booking); err != nil {
		if errors.Is(err, store.ErrOverlap) {
			return nil, apperr.RoomUnavailable()
		}
		return nil, lookupErr("Room", err)
	}

	msg := fmt.Sprintf("New booking for %s by %s.", booking.RoomName, booking.GuestName)
	if err := s.notifier.NotifyAllAdmins(ctx, msg, adminBookingsHref); err != nil {
		log.Printf("notify admins for booking %s: %v", booking.ID, err)
	}
	return booking, nil
}

// SetStatus moves a booking to status on behalf of an admin. Setting the
// current status again changes nothing but still notifies, once per call.
func (s *Service) SetStatus(ctx context.Context, sess *session.Session, bookingID string, status model.BookingStatus) (*model.Booking, error) {
	if !sess.IsAdmin() {
		return nil, apperr.Unauthorized("")
	}
	if !status.Valid() {
		return nil, apperr.Validation("status", "Unknown booking status.")
	}

	current, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, lookupErr("Booking", err)
	}

	unlock := s.locks.Lock(current.RoomID)
	booking, _, err := s.store.UpdateBookingStatus(ctx, bookingID, status)
	unlock()
	if err != nil {
		if errors.Is(err, store.ErrOverlap) {
			return nil, apperr.RoomUnavailable()
		}
		return nil, lookupErr("Booking", err)
	}

	verb := strings.ToLower(string(status))
	guestMsg := fmt.Sprintf("Your booking for %s has been %s.", booking.RoomName, verb)
	if err := s.notifier.Notify(ctx, booking.ID, guestMsg, guestHref); err != nil {
		log.Printf("notify guest of booking %s: %v", booking.ID, err)
	}
	selfMsg := fmt.Sprintf("You %s the booking for %s.", verb, booking.GuestName)
	if err := s.notifier.Notify(ctx, sess.SubjectID, selfMsg, adminBookingsHref); err != nil {
		log.Printf("notify admin %s of own action: %v", sess.SubjectID, err)
	}
	return booking, nil
}

// CancelOwn cancels the guest's own booking. A guest session may only
// cancel the booking it was issued for.
func (s *Service) CancelOwn(ctx context.Context, sess *session.Session, bookingID string) (*model.Booking, error) {
	if !sess.IsGuest() || sess.SubjectID != bookingID {
		return nil, apperr.Unauthorized("")
	}

	booking, changed, err := s.store.UpdateBookingStatus(ctx, bookingID, model.StatusCancelled)
	if err != nil {
		return nil, lookupErr("Booking", err)
	}
	if changed {
		msg := fmt.Sprintf("Guest %s cancelled their booking for %s.", booking.GuestName, booking.RoomName)
		if err := s.notifier.NotifyAllAdmins(ctx, msg, adminBookingsHref); err != nil {
			log.Printf("notify admins of cancellation %s: %v", booking.ID, err)
		}
	}
	return booking, nil
}

// Quote is the price and availability of a prospective stay.
type Quote struct {
	RoomID    string    `json:"roomId"`
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Nights    int       `json:"nights"`
	Price     float64   `json:"price"`
	Total     float64   `json:"total"`
	Available bool      `json:"available"`
}

// Quote prices a stay and reports whether the room is free for it. It is
// the figure Submit will recompute.
func (s *Service) Quote(ctx context.Context, roomID, rawCheckIn, rawCheckOut string) (*Quote, error) {
	checkIn, checkOut, err := s.stayRange(rawCheckIn, rawCheckOut)
	if err != nil {
		return nil, err
	}
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, lookupErr("Room", err)
	}
	available, err := s.engine.IsAvailable(ctx, room.ID, checkIn, checkOut)
	if err != nil {
		return nil, apperr.Upstream("", err)
	}
	return &Quote{
		RoomID:    room.ID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Nights:    availability.Nights(checkIn, checkOut),
		Price:     room.Price,
		Total:     Total(checkIn, checkOut, room.Price),
		Available: available,
	}, nil
}

// Total is nights times the nightly price, rounded to cents.
func Total(checkIn, checkOut time.Time, price float64) float64 {
	return math.Round(float64(availability.Nights(checkIn, checkOut))*price*100) / 100
}

func (s *Service) stayRange(rawCheckIn, rawCheckOut string) (time.Time, time.Time, error) {
	checkIn, err := parse.StayDate(rawCheckIn, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("checkIn", "Please enter a valid check-in date.")
	}
	checkOut, err := parse.StayDate(rawCheckOut, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("checkOut", "Please enter a valid check-out date.")
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, apperr.Validation("checkOut", "Check-out date must be after check-in date.")
	}
	return checkIn, checkOut, nil
}

func lookupErr(what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(what)
	}
	return apperr.Upstream("", err)
}
