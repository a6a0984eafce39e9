package models

import "time"

// UserSession is the server-side record behind an issued auth token. The JWT
// only carries the session ID; expiry, rotation and last-seen state live here
// so a session can be revoked or rotated without re-issuing credentials.
type UserSession struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null"`
	RotatedAt  time.Time `json:"rotated_at" gorm:"not null"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
