package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-backend/internal/availability"
	"hotel-booking-backend/internal/model"
)

// CreateBookingIfAvailable inserts booking iff no Pending or Confirmed
// booking of the same room overlaps it. The room row is locked for the
// duration of the transaction so that two concurrent submissions for the
// same room are serialized at the database.
func (s *gormStore) CreateBookingIfAvailable(ctx context.Context, booking *model.Booking) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRoom(tx, booking.RoomID); err != nil {
			return err
		}

		candidate := availability.Interval{CheckIn: booking.CheckIn, CheckOut: booking.CheckOut}
		existing, err := activeBookingsInRange(tx, booking.RoomID, booking.CheckIn, booking.CheckOut)
		if err != nil {
			return err
		}
		if len(availability.FindOverlaps(existing, booking.RoomID, candidate, "")) > 0 {
			return ErrOverlap
		}

		if booking.ID == "" {
			booking.ID = uuid.NewString()
		}
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking for room %s: %w", booking.RoomID, err)
		}
		return nil
	})
	return constraint(err)
}

// UpdateBookingStatus sets the status of a booking and reports whether it
// changed. Moving a Cancelled booking back to an active status re-runs the
// overlap check, excluding the booking itself.
func (s *gormStore) UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, bool, error) {
	var booking model.Booking
	changed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if booking.Status == status {
			return nil
		}

		if status.Active() && !booking.Status.Active() {
			if err := lockRoom(tx, booking.RoomID); err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
			existing, err := activeBookingsInRange(tx, booking.RoomID, booking.CheckIn, booking.CheckOut)
			if err != nil {
				return err
			}
			candidate := availability.Interval{CheckIn: booking.CheckIn, CheckOut: booking.CheckOut}
			if len(availability.FindOverlaps(existing, booking.RoomID, candidate, booking.ID)) > 0 {
				return ErrOverlap
			}
		}

		if err := tx.Model(&booking).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update status of booking %s: %w", id, err)
		}
		booking.Status = status
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, constraint(err)
	}
	return &booking, changed, nil
}

func (s *gormStore) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	if err := s.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (s *gormStore) ListBookings(ctx context.Context, filter BookingFilter) ([]model.Booking, error) {
	q := s.db.WithContext(ctx).Model(&model.Booking{})
	if filter.RoomID != "" {
		q = q.Where("room_id = ?", filter.RoomID)
	}
	if len(filter.IDs) > 0 {
		q = q.Where("id IN ?", filter.IDs)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var bookings []model.Booking
	if err := q.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (s *gormStore) ListActiveBookingsForRoom(ctx context.Context, roomID string, from, to time.Time) ([]model.Booking, error) {
	return activeBookingsInRange(s.db.WithContext(ctx), roomID, from, to)
}

// FindBookingForLogin returns the active booking matching all three guest
// credentials. When a guest has several matching stays the most recent one
// wins.
func (s *gormStore) FindBookingForLogin(ctx context.Context, guestName, guestIDNumber, phoneNumber string) (*model.Booking, error) {
	var booking model.Booking
	err := s.db.WithContext(ctx).
		Where("guest_name = ? AND guest_id_number = ? AND phone_number = ?", guestName, guestIDNumber, phoneNumber).
		Where("status IN ?", model.ActiveStatuses).
		Order("created_at DESC").
		First(&booking).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

func (s *gormStore) UpdateBookingAvatar(ctx context.Context, id, avatar string) error {
	res := s.db.WithContext(ctx).Model(&model.Booking{}).Where("id = ?", id).Update("avatar", avatar)
	if res.Error != nil {
		return fmt.Errorf("update avatar of booking %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// lockRoom takes a row lock on the room. SQLite has no row locks; its
// database-level write lock serializes the transaction instead.
func lockRoom(tx *gorm.DB, roomID string) error {
	var room model.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&room, "id = ?", roomID).Error
	if err != nil {
		return notFound(err)
	}
	return nil
}

// activeBookingsInRange narrows candidates in SQL with the same half-open
// predicate availability.IsOverlapping applies in Go.
func activeBookingsInRange(tx *gorm.DB, roomID string, from, to time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := tx.Where("room_id = ? AND status IN ?", roomID, model.ActiveStatuses).
		Where("check_in < ? AND check_out > ?", to, from).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active bookings for room %s: %w", roomID, err)
	}
	return bookings, nil
}
