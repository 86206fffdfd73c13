package store

import "hotel-booking-backend/internal/model"

// BookingFilter narrows ListBookings. Zero values mean "no constraint".
type BookingFilter struct {
	RoomID   string
	IDs      []string
	Statuses []model.BookingStatus
	Limit    int
}

// AdminUpdate carries the profile fields to change; nil fields are left
// untouched.
type AdminUpdate struct {
	Name         *string
	Avatar       *string
	PasswordHash *string
}

func (u AdminUpdate) columns() map[string]any {
	cols := make(map[string]any)
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Avatar != nil {
		cols["avatar"] = *u.Avatar
	}
	if u.PasswordHash != nil {
		cols["password_hash"] = *u.PasswordHash
	}
	return cols
}
