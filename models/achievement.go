package models

import "time"

// Achievement criteria fields. Snapshot-based achievements compare one of
// these snapshot dimensions against a threshold; score-based achievements
// are evaluated from a single submission instead and carry CriteriaScore.
const (
	CriteriaTopics     = "completed_topics"
	CriteriaQuizzes    = "quizzes_passed"
	CriteriaChallenges = "challenges_completed"
	CriteriaMiniGames  = "minigames_completed"
	CriteriaScore      = "submission_score"
)

type Achievement struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null;size:64"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Criteria    string    `json:"criteria" gorm:"not null;size:32"`
	Threshold   int       `json:"threshold"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserAchievement is a grant: this user has earned this achievement. The
// composite unique index makes the grant insert idempotent.
type UserAchievement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	AchievementID uint      `json:"achievement_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	AwardedAt     time.Time `json:"awarded_at"`

	User        User        `json:"-" gorm:"foreignKey:UserID"`
	Achievement Achievement `json:"achievement,omitempty" gorm:"foreignKey:AchievementID"`
}
