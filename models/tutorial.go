package models

import "time"

// TutorialTopic is the catalog of tutorial topics. The completion ratio in a
// progress snapshot is completed topics over the number of rows here.
type TutorialTopic struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null;size:64"`
	Title     string    `json:"title" gorm:"not null"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// TutorialProgress is the one progress dimension stored as a first-class row
// (topic completion status) rather than derived from an attempt log. User
// track only; guests have no tutorial history.
type TutorialProgress struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_topic"`
	TopicID     uint       `json:"topic_id" gorm:"not null;uniqueIndex:idx_user_topic"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	User  User          `json:"-" gorm:"foreignKey:UserID"`
	Topic TutorialTopic `json:"-" gorm:"foreignKey:TopicID"`
}
