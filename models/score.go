package models

import "time"

// Leaderboard score kinds. Category narrows a kind further (quiz difficulty
// or mini-game mode); challenge boards use an empty category.
const (
	ScoreKindQuiz      = "quiz"
	ScoreKindChallenge = "challenge"
	ScoreKindMiniGame  = "minigame"
)

// UserScore is the per-user leaderboard aggregate, one row per
// (user, kind, category). Writes go through an upsert that keeps the higher
// score, so a lower later attempt never clobbers a personal best.
type UserScore struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_kind_cat"`
	Kind      string    `json:"kind" gorm:"not null;size:16;uniqueIndex:idx_user_kind_cat"`
	Category  string    `json:"category" gorm:"size:32;uniqueIndex:idx_user_kind_cat"`
	Score     int       `json:"score" gorm:"not null;default:0"`
	TimeTaken int       `json:"time_taken"`
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	PlayedAt  time.Time `json:"played_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// GuestScore mirrors UserScore for the guest track. The nickname is
// denormalized onto the row so leaderboard reads don't join the guest table.
type GuestScore struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	GuestSessionID string    `json:"guest_session_id" gorm:"not null;size:36;uniqueIndex:idx_guest_kind_cat"`
	Nickname       string    `json:"nickname" gorm:"not null;size:50"`
	Kind           string    `json:"kind" gorm:"not null;size:16;uniqueIndex:idx_guest_kind_cat"`
	Category       string    `json:"category" gorm:"size:32;uniqueIndex:idx_guest_kind_cat"`
	Score          int       `json:"score" gorm:"not null;default:0"`
	TimeTaken      int       `json:"time_taken"`
	Correct        int       `json:"correct"`
	Total          int       `json:"total"`
	PlayedAt       time.Time `json:"played_at" gorm:"index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	GuestSession GuestSession `json:"-" gorm:"foreignKey:GuestSessionID"`
}
