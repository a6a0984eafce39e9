package services

import (
	"errors"
	"time"

	"codegaming/logger"
	"codegaming/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrGuestsNotAllowed = errors.New("guests cannot record this activity")

// AttemptService appends to the per-activity attempt logs. Attempts are
// immutable once written; nothing here updates or deletes existing rows.
type AttemptService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptService(db *gorm.DB, log *logger.Logger) *AttemptService {
	return &AttemptService{db: db, log: log.With("service", "AttemptService")}
}

// Quiz and challenge attempt requests are built by the transport layer after
// binding; they carry no validation tags of their own.
type QuizAttemptRequest struct {
	Difficulty string
	QuestionID uint
	IsCorrect  bool
	Points     int
	TimeTaken  int
}

type ChallengeAttemptRequest struct {
	ChallengeID uint
	Passed      bool
	Points      int
	TimeTaken   int
}

type MiniGameAttemptRequest struct {
	Mode      string `json:"mode" binding:"required,min=1,max=32"`
	Score     int    `json:"score" binding:"min=0"`
	Completed bool   `json:"completed"`
	TimeTaken int    `json:"time_taken" binding:"min=0"`
}

// RecordQuiz appends a quiz attempt for either identity track.
func (s *AttemptService) RecordQuiz(identity Identity, req *QuizAttemptRequest) error {
	if err := ValidateQuizDifficulty(req.Difficulty); err != nil {
		return err
	}
	switch id := identity.(type) {
	case *AuthedUser:
		return s.db.Create(&models.QuizAttempt{
			UserID:     id.User.ID,
			Difficulty: req.Difficulty,
			QuestionID: req.QuestionID,
			IsCorrect:  req.IsCorrect,
			Points:     req.Points,
			TimeTaken:  req.TimeTaken,
		}).Error
	case *GuestUser:
		return s.db.Create(&models.GuestQuizAttempt{
			GuestSessionID: id.Session.ID,
			Difficulty:     req.Difficulty,
			QuestionID:     req.QuestionID,
			IsCorrect:      req.IsCorrect,
			Points:         req.Points,
			TimeTaken:      req.TimeTaken,
		}).Error
	default:
		return errors.New("unsupported identity type")
	}
}

// RecordChallenge appends a challenge attempt for either identity track.
func (s *AttemptService) RecordChallenge(identity Identity, req *ChallengeAttemptRequest) error {
	switch id := identity.(type) {
	case *AuthedUser:
		return s.db.Create(&models.ChallengeAttempt{
			UserID:      id.User.ID,
			ChallengeID: req.ChallengeID,
			Passed:      req.Passed,
			Points:      req.Points,
			TimeTaken:   req.TimeTaken,
		}).Error
	case *GuestUser:
		return s.db.Create(&models.GuestChallengeAttempt{
			GuestSessionID: id.Session.ID,
			ChallengeID:    req.ChallengeID,
			Passed:         req.Passed,
			Points:         req.Points,
			TimeTaken:      req.TimeTaken,
		}).Error
	default:
		return errors.New("unsupported identity type")
	}
}

// RecordMiniGame appends a mini-game attempt. User track only; guests have
// no mini-game history.
func (s *AttemptService) RecordMiniGame(identity Identity, req *MiniGameAttemptRequest) error {
	authed, ok := identity.(*AuthedUser)
	if !ok {
		return ErrGuestsNotAllowed
	}
	return s.db.Create(&models.MiniGameAttempt{
		UserID:    authed.User.ID,
		Mode:      req.Mode,
		Score:     req.Score,
		Completed: req.Completed,
		TimeTaken: req.TimeTaken,
	}).Error
}

// CompleteTutorialTopic marks a topic completed for the user. Completing an
// already-completed topic is a no-op, not an error.
func (s *AttemptService) CompleteTutorialTopic(userID, topicID uint) error {
	var topic models.TutorialTopic
	if err := s.db.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gorm.ErrRecordNotFound
		}
		return err
	}

	now := time.Now()
	progress := models.TutorialProgress{
		UserID:      userID,
		TopicID:     topicID,
		Completed:   true,
		CompletedAt: &now,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":    true,
			"completed_at": now,
			"updated_at":   now,
		}),
	}).Create(&progress).Error
}
