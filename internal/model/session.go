package model

import "time"

// Role distinguishes the two kinds of principals.
type Role string

const (
	RoleGuest Role = "guest"
	RoleAdmin Role = "admin"
)

// Session is the server-side half of a login. The signed token carries
// its ID; deleting the row revokes the token before it expires.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Role      Role      `gorm:"size:16;not null"`
	SubjectID string    `gorm:"size:36;index;not null"` // admin id or booking id
	Email     string    `gorm:"size:255"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
