package services

import (
	"errors"
	"time"

	"codegaming/logger"
	"codegaming/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUnknownAchievement = errors.New("unknown achievement")
	ErrCriteriaNotMet     = errors.New("achievement criteria not met")
)

// achievementDefs is the fixed, ordered table of snapshot-based achievement
// definitions. Each one is a threshold over a single snapshot dimension and
// is evaluated in this declared order.
var achievementDefs = []models.Achievement{
	{Code: "first_steps", Name: "First Steps", Description: "Complete your first tutorial topic", Criteria: models.CriteriaTopics, Threshold: 1, SortOrder: 1},
	{Code: "tutorial_master", Name: "Tutorial Master", Description: "Complete 10 tutorial topics", Criteria: models.CriteriaTopics, Threshold: 10, SortOrder: 2},
	{Code: "quiz_whiz", Name: "Quiz Whiz", Description: "Answer 10 quiz questions correctly", Criteria: models.CriteriaQuizzes, Threshold: 10, SortOrder: 3},
	{Code: "quiz_champion", Name: "Quiz Champion", Description: "Answer 50 quiz questions correctly", Criteria: models.CriteriaQuizzes, Threshold: 50, SortOrder: 4},
	{Code: "challenger", Name: "Challenger", Description: "Pass your first coding challenge", Criteria: models.CriteriaChallenges, Threshold: 1, SortOrder: 5},
	{Code: "code_warrior", Name: "Code Warrior", Description: "Pass 10 coding challenges", Criteria: models.CriteriaChallenges, Threshold: 10, SortOrder: 6},
	{Code: "game_on", Name: "Game On", Description: "Complete a mini-game mode", Criteria: models.CriteriaMiniGames, Threshold: 1, SortOrder: 7},
	{Code: "arcade_ace", Name: "Arcade Ace", Description: "Complete 3 mini-game modes", Criteria: models.CriteriaMiniGames, Threshold: 3, SortOrder: 8},
}

// scoreAchievementDefs are evaluated from a single submission's values
// (score, correct, total) supplied by the challenge-completion flow, which is
// the source of truth for that submission. They are keyed by code.
var scoreAchievementDefs = []models.Achievement{
	{Code: "perfect_score", Name: "Perfect Score", Description: "Answer every question in a challenge correctly", Criteria: models.CriteriaScore, SortOrder: 101},
	{Code: "sharp_shooter", Name: "Sharp Shooter", Description: "Score 90% or better on a challenge", Criteria: models.CriteriaScore, SortOrder: 102},
	{Code: "high_scorer", Name: "High Scorer", Description: "Score 1000 points in a single challenge", Criteria: models.CriteriaScore, Threshold: 1000, SortOrder: 103},
}

type AchievementService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementService(db *gorm.DB, log *logger.Logger) *AchievementService {
	return &AchievementService{db: db, log: log.With("service", "AchievementService")}
}

// Seed inserts the fixed definition tables, skipping codes that already
// exist. Run once at startup after migration.
func (s *AchievementService) Seed() error {
	defs := append(append([]models.Achievement{}, achievementDefs...), scoreAchievementDefs...)
	for i := range defs {
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).Create(&defs[i]).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// EvaluateAndAward checks every snapshot-based definition against the
// snapshot and grants the ones newly satisfied. The grant insert relies on
// the (user, achievement) unique index, so a concurrent duplicate evaluation
// can never double-award: calling this twice with the same snapshot returns
// an empty list the second time.
func (s *AchievementService) EvaluateAndAward(userID uint, snapshot *ProgressSnapshot) ([]models.Achievement, error) {
	var defs []models.Achievement
	err := s.db.Where("criteria <> ?", models.CriteriaScore).
		Order("sort_order").Find(&defs).Error
	if err != nil {
		return nil, err
	}

	granted, err := s.grantedIDs(userID)
	if err != nil {
		return nil, err
	}

	var awarded []models.Achievement
	for _, def := range defs {
		if granted[def.ID] {
			continue
		}
		if snapshotValue(def.Criteria, snapshot) < def.Threshold {
			continue
		}
		ok, err := s.grant(userID, def)
		if err != nil {
			return nil, err
		}
		if ok {
			awarded = append(awarded, def)
		}
	}
	return awarded, nil
}

// AwardForScore handles the score-based achievement path. The caller's
// submission values are trusted, not re-derived. Returns the achievement and
// whether it was already earned.
func (s *AchievementService) AwardForScore(userID uint, code string, score, correct, total int) (*models.Achievement, bool, error) {
	var def models.Achievement
	err := s.db.First(&def, "code = ? AND criteria = ?", code, models.CriteriaScore).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUnknownAchievement
		}
		return nil, false, err
	}

	if !scoreCriteriaMet(code, def.Threshold, score, correct, total) {
		return nil, false, ErrCriteriaNotMet
	}

	awarded, err := s.grant(userID, def)
	if err != nil {
		return nil, false, err
	}
	return &def, !awarded, nil
}

// ListForUser returns all definitions with the user's earned set.
func (s *AchievementService) ListForUser(userID uint) ([]models.Achievement, []models.UserAchievement, error) {
	var defs []models.Achievement
	if err := s.db.Order("sort_order").Find(&defs).Error; err != nil {
		return nil, nil, err
	}
	var grants []models.UserAchievement
	err := s.db.Preload("Achievement").Where("user_id = ?", userID).
		Order("awarded_at").Find(&grants).Error
	if err != nil {
		return nil, nil, err
	}
	return defs, grants, nil
}

// grant inserts the grant row; the unique index plus ON CONFLICT DO NOTHING
// makes it atomic. Returns false when the grant already existed.
func (s *AchievementService) grant(userID uint, def models.Achievement) (bool, error) {
	ua := models.UserAchievement{
		UserID:        userID,
		AchievementID: def.ID,
		AwardedAt:     time.Now(),
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&ua)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	notification := models.Notification{
		UserID: userID,
		Title:  "Achievement unlocked!",
		Body:   def.Name + ": " + def.Description,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		s.log.Warn("failed to create achievement notification", "error", err)
	}
	return true, nil
}

func (s *AchievementService) grantedIDs(userID uint) (map[uint]bool, error) {
	var grants []models.UserAchievement
	if err := s.db.Where("user_id = ?", userID).Find(&grants).Error; err != nil {
		return nil, err
	}
	granted := make(map[uint]bool, len(grants))
	for _, g := range grants {
		granted[g.AchievementID] = true
	}
	return granted, nil
}

func snapshotValue(criteria string, snapshot *ProgressSnapshot) int {
	switch criteria {
	case models.CriteriaTopics:
		return snapshot.CompletedTopics
	case models.CriteriaQuizzes:
		return snapshot.QuizzesPassed
	case models.CriteriaChallenges:
		return snapshot.ChallengesCompleted
	case models.CriteriaMiniGames:
		return snapshot.MiniGamesCompleted
	default:
		return 0
	}
}

func scoreCriteriaMet(code string, threshold, score, correct, total int) bool {
	switch code {
	case "perfect_score":
		return total > 0 && correct == total
	case "sharp_shooter":
		return total > 0 && float64(correct)/float64(total) >= 0.9
	case "high_scorer":
		return score >= threshold
	default:
		return false
	}
}
