package models

import "time"

// GuestSession is an ephemeral identity for visitors who play without an
// account. It lives in its own table with its own key space; guest records
// are never merged with user accounts.
type GuestSession struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Nickname     string    `json:"nickname" gorm:"uniqueIndex;not null;size:50"`
	IPAddress    string    `json:"ip_address" gorm:"size:45"`
	UserAgent    string    `json:"user_agent" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}
