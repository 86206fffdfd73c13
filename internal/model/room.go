package model

import (
	"time"

	"gorm.io/datatypes"
)

// RoomImage is one picture of a room plus a short descriptive hint.
type RoomImage struct {
	URL  string `json:"url"`
	Hint string `json:"hint"`
}

// Room is a bookable hotel room.
type Room struct {
	ID          string                         `gorm:"primaryKey;size:36" json:"id"`
	Name        string                         `gorm:"size:128;not null" json:"name"`
	Description string                         `gorm:"type:text;not null" json:"description"`
	Price       float64                        `gorm:"not null" json:"price"` // nightly
	Images      datatypes.JSONSlice[RoomImage] `json:"images"`
	CreatedAt   time.Time                      `json:"createdAt"`
	UpdatedAt   time.Time                      `json:"updatedAt"`
}

// Amenity is a hotel facility shown on the marketing pages.
type Amenity struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Icon        string    `gorm:"size:32;not null" json:"icon"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Details     string    `gorm:"type:text" json:"details"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Attraction is a nearby point of interest.
type Attraction struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Icon        string    `gorm:"size:32;not null" json:"icon"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Distance    string    `gorm:"size:64" json:"distance"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
