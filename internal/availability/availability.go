// Package availability decides whether a room is free for a stay.
//
// Two predicates live here and must not be confused: IsOverlapping gates
// booking creation on half-open [checkIn, checkOut) intervals, while
// IsOccupiedOn answers the day-granular "is the room taken today" question
// used for display badges.
package availability

import (
	"context"
	"time"

	"hotel-booking-backend/internal/model"
)

// Interval is a half-open stay [CheckIn, CheckOut).
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// IsOverlapping reports whether two stays share at least one night.
// Touching intervals, where one checks out the day the other checks in,
// do not overlap.
func IsOverlapping(existing, candidate Interval) bool {
	return existing.CheckIn.Before(candidate.CheckOut) && existing.CheckOut.After(candidate.CheckIn)
}

// FindOverlaps returns the active bookings of roomID whose stay overlaps
// candidate. A booking whose ID equals excludeID is skipped, which lets a
// booking be re-checked against everyone but itself.
func FindOverlaps(bookings []model.Booking, roomID string, candidate Interval, excludeID string) []model.Booking {
	var conflicts []model.Booking
	for _, b := range bookings {
		if b.RoomID != roomID || !b.Status.Active() {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if IsOverlapping(Interval{CheckIn: b.CheckIn, CheckOut: b.CheckOut}, candidate) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// StartOfDay truncates t to midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsOccupiedOn reports whether a booking of roomID covers the calendar day
// of asOf: checkIn <= asOf < checkOut, compared as dates. Stored stay dates
// are midnight UTC of the hotel's calendar date, so they are read in UTC
// while asOf is read in its own location. Cancelled bookings are skipped and
// every other booking passed in counts; callers wanting Confirmed only must
// filter beforehand.
func IsOccupiedOn(bookings []model.Booking, roomID string, asOf time.Time) bool {
	day := calendarDate(asOf)
	for _, b := range bookings {
		if b.RoomID != roomID || b.Status == model.StatusCancelled {
			continue
		}
		in := calendarDate(b.CheckIn.UTC())
		out := calendarDate(b.CheckOut.UTC())
		if !in.After(day) && out.After(day) {
			return true
		}
	}
	return false
}

// OccupiedRoomIDs returns the set of rooms occupied on the day of asOf.
func OccupiedRoomIDs(bookings []model.Booking, asOf time.Time) map[string]bool {
	occupied := make(map[string]bool)
	for _, b := range bookings {
		if occupied[b.RoomID] {
			continue
		}
		if IsOccupiedOn([]model.Booking{b}, b.RoomID, asOf) {
			occupied[b.RoomID] = true
		}
	}
	return occupied
}

// Nights returns the whole-day difference between two dates. Times of day
// are ignored so the result matches what a calendar picker shows.
func Nights(checkIn, checkOut time.Time) int {
	in := calendarDate(checkIn)
	out := calendarDate(checkOut)
	return int(out.Sub(in).Hours() / 24)
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BookingLister is the slice of the store the engine reads from.
type BookingLister interface {
	ListActiveBookingsForRoom(ctx context.Context, roomID string, from, to time.Time) ([]model.Booking, error)
}

// Engine answers availability questions against persisted bookings.
type Engine struct {
	bookings BookingLister
}

// NewEngine creates an Engine backed by the given store.
func NewEngine(bookings BookingLister) *Engine {
	return &Engine{bookings: bookings}
}

// FindConflicts returns the Pending or Confirmed bookings of roomID that
// overlap [checkIn, checkOut).
func (e *Engine) FindConflicts(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]model.Booking, error) {
	existing, err := e.bookings.ListActiveBookingsForRoom(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	return FindOverlaps(existing, roomID, Interval{CheckIn: checkIn, CheckOut: checkOut}, ""), nil
}

// IsAvailable reports whether roomID has no conflicts for the stay.
func (e *Engine) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	conflicts, err := e.FindConflicts(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}
