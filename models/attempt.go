package models

import "time"

// Attempt tables are append-only: rows are written once when the activity
// happens and never updated or deleted afterwards. User and guest activity
// live in separate tables with separate foreign keys; there is no shared
// identity space between the two tracks.

type QuizAttempt struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Difficulty string    `json:"difficulty" gorm:"not null;size:16"` // easy, medium, hard
	QuestionID uint      `json:"question_id"`
	IsCorrect  bool      `json:"is_correct"`
	Points     int       `json:"points"`
	TimeTaken  int       `json:"time_taken"` // seconds
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

type GuestQuizAttempt struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	GuestSessionID string    `json:"guest_session_id" gorm:"not null;index;size:36"`
	Difficulty     string    `json:"difficulty" gorm:"not null;size:16"`
	QuestionID     uint      `json:"question_id"`
	IsCorrect      bool      `json:"is_correct"`
	Points         int       `json:"points"`
	TimeTaken      int       `json:"time_taken"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`

	GuestSession GuestSession `json:"-" gorm:"foreignKey:GuestSessionID"`
}

type ChallengeAttempt struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	ChallengeID uint      `json:"challenge_id" gorm:"not null"`
	Passed      bool      `json:"passed"`
	Points      int       `json:"points"`
	TimeTaken   int       `json:"time_taken"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

type GuestChallengeAttempt struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	GuestSessionID string    `json:"guest_session_id" gorm:"not null;index;size:36"`
	ChallengeID    uint      `json:"challenge_id" gorm:"not null"`
	Passed         bool      `json:"passed"`
	Points         int       `json:"points"`
	TimeTaken      int       `json:"time_taken"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`

	GuestSession GuestSession `json:"-" gorm:"foreignKey:GuestSessionID"`
}

// MiniGameAttempt exists only for the user track; guests have no mini-game
// history in this design.
type MiniGameAttempt struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Mode      string    `json:"mode" gorm:"not null;size:32"`
	Score     int       `json:"score"`
	Completed bool      `json:"completed"`
	TimeTaken int       `json:"time_taken"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
