package models

import (
	"time"

	"gorm.io/gorm"
)

// Announcement is a site-wide message authored by an admin.
type Announcement struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	AuthorID  uint           `json:"author_id" gorm:"not null"`
	Title     string         `json:"title" gorm:"not null"`
	Body      string         `json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// Notification is a per-user message (e.g. "you earned an achievement").
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Body      string    `json:"body"`
	Read      bool      `json:"read" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// AdminAction is an audit log row appended for every admin mutation.
type AdminAction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AdminID   uint      `json:"admin_id" gorm:"not null;index"`
	Action    string    `json:"action" gorm:"not null;size:64"`
	Target    string    `json:"target" gorm:"size:128"`
	CreatedAt time.Time `json:"created_at"`

	Admin User `json:"-" gorm:"foreignKey:AdminID"`
}
