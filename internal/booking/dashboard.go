package booking

import (
	"context"
	"time"

	"hotel-booking-backend/internal/apperr"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/session"
	"hotel-booking-backend/internal/store"
)

// MonthRevenue is the confirmed revenue of one calendar month.
type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// Stats summarizes bookings for the admin dashboard.
type Stats struct {
	Total          int                         `json:"total"`
	ByStatus       map[model.BookingStatus]int `json:"byStatus"`
	TotalRevenue   float64                     `json:"totalRevenue"`
	RevenueByMonth []MonthRevenue              `json:"revenueByMonth"`
	Recent         []model.Booking             `json:"recent"`
}

const recentBookings = 5

// AdminStats computes booking counts and revenue. Revenue counts Confirmed
// bookings only and is bucketed by check-in month of the current year.
func (s *Service) AdminStats(ctx context.Context) (*Stats, error) {
	bookings, err := s.store.ListBookings(ctx, store.BookingFilter{})
	if err != nil {
		return nil, apperr.Upstream("", err)
	}
	return summarize(bookings, s.now().In(s.loc).Year()), nil
}

func summarize(bookings []model.Booking, year int) *Stats {
	stats := &Stats{
		Total: len(bookings),
		ByStatus: map[model.BookingStatus]int{
			model.StatusPending:   0,
			model.StatusConfirmed: 0,
			model.StatusCancelled: 0,
		},
		RevenueByMonth: make([]MonthRevenue, 12),
	}
	for i := range stats.RevenueByMonth {
		stats.RevenueByMonth[i].Month = time.Month(i + 1).String()[:3]
	}

	for _, b := range bookings {
		stats.ByStatus[b.Status]++
		if b.Status != model.StatusConfirmed {
			continue
		}
		stats.TotalRevenue += b.Total
		if b.CheckIn.Year() == year {
			stats.RevenueByMonth[b.CheckIn.Month()-1].Revenue += b.Total
		}
	}

	// bookings arrive newest first
	n := recentBookings
	if len(bookings) < n {
		n = len(bookings)
	}
	stats.Recent = append([]model.Booking{}, bookings[:n]...)
	return stats
}

// List returns bookings for the admin bookings tab, newest first.
func (s *Service) List(ctx context.Context, filter store.BookingFilter) ([]model.Booking, error) {
	bookings, err := s.store.ListBookings(ctx, filter)
	if err != nil {
		return nil, apperr.Upstream("", err)
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return bookings, nil
}

// ForSession returns the bookings visible to sess: every booking for an
// admin, and only the guest's own booking for a guest.
func (s *Service) ForSession(ctx context.Context, sess *session.Session) ([]model.Booking, error) {
	switch {
	case sess.IsAdmin():
		return s.List(ctx, store.BookingFilter{})
	case sess.IsGuest():
		own, err := s.store.GetBooking(ctx, sess.SubjectID)
		if err != nil {
			return nil, lookupErr("Booking", err)
		}
		return []model.Booking{*own}, nil
	}
	return nil, apperr.Unauthorized("")
}
