package model

import "time"

// Notification is a message addressed to an admin id or a guest's booking id.
type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;index:idx_notifications_user_created,priority:1;not null" json:"userId"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Href      string    `gorm:"size:255" json:"href"`
	IsRead    bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt time.Time `gorm:"index:idx_notifications_user_created,priority:2" json:"createdAt"`
}

// ContactMessage is a message sent through the public contact form.
type ContactMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}
