package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCancelled BookingStatus = "Cancelled"
)

// ActiveStatuses are the statuses that occupy a room.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether a booking in this status holds the room.
func (s BookingStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Booking is a guest's stay. For guests it doubles as the account record:
// a guest session's subject id is the booking id.
type Booking struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	RoomID        string        `gorm:"size:36;index:idx_bookings_room_range,priority:1;not null" json:"roomId"`
	RoomName      string        `gorm:"size:128;not null" json:"roomName"`
	GuestName     string        `gorm:"size:128;index:idx_bookings_login,priority:1;not null" json:"guestName"`
	GuestIDNumber string        `gorm:"size:64;index:idx_bookings_login,priority:2;not null" json:"guestIdNumber"`
	PhoneNumber   string        `gorm:"size:32;index:idx_bookings_login,priority:3;not null" json:"phoneNumber"`
	CheckIn       time.Time     `gorm:"index:idx_bookings_room_range,priority:2;not null" json:"checkIn"`
	CheckOut      time.Time     `gorm:"index:idx_bookings_room_range,priority:3;not null" json:"checkOut"`
	Status        BookingStatus `gorm:"size:16;index;not null" json:"status"`
	Total         float64       `gorm:"not null" json:"total"`
	Avatar        string        `gorm:"size:512" json:"avatar,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
