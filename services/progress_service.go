package services

import (
	"fmt"

	"codegaming/logger"
	"codegaming/models"

	"gorm.io/gorm"
)

// Overall-progress weighting. Dashboards display the weighted value directly,
// so these constants are part of the observable contract.
const (
	weightChallenge = 5
	weightQuiz      = 2
	weightMiniGame  = 10
	weightTutorial  = 0.3

	// Trend fields are synthesized from the current value rather than real
	// history. See DESIGN.md for the open question around this.
	trendWeekFactor  = 0.8
	trendMonthFactor = 0.9
)

// ProgressSnapshot is a computed aggregate over one identity's attempts. It
// is recomputed on every request that needs it and never persisted.
type ProgressSnapshot struct {
	QuizzesPassed       int     `json:"quizzes_passed"`
	ChallengesCompleted int     `json:"challenges_completed"`
	MiniGamesCompleted  int     `json:"minigames_completed"`
	CompletedTopics     int     `json:"completed_topics"`
	TotalTopics         int     `json:"total_topics"`
	TutorialPercent     float64 `json:"tutorial_percent"`
	OverallProgress     float64 `json:"overall_progress"`
	LastWeekProgress    float64 `json:"last_week_progress"`
	LastMonthProgress   float64 `json:"last_month_progress"`
}

type ProgressService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressService(db *gorm.DB, log *logger.Logger) *ProgressService {
	return &ProgressService{db: db, log: log.With("service", "ProgressService")}
}

// ComputeStats builds the snapshot for the given identity. The computation is
// atomic from the caller's perspective: if any underlying read fails, the
// whole snapshot fails.
func (s *ProgressService) ComputeStats(identity Identity) (*ProgressSnapshot, error) {
	switch id := identity.(type) {
	case *AuthedUser:
		return s.computeUserStats(id.User.ID)
	case *GuestUser:
		return s.computeGuestStats(id.Session.ID)
	default:
		return nil, fmt.Errorf("unsupported identity type %T", identity)
	}
}

func (s *ProgressService) computeUserStats(userID uint) (*ProgressSnapshot, error) {
	var quizzes int64
	if err := s.db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND is_correct = ?", userID, true).
		Count(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("count quiz attempts: %w", err)
	}

	var challenges int64
	if err := s.db.Model(&models.ChallengeAttempt{}).
		Where("user_id = ? AND passed = ?", userID, true).
		Distinct("challenge_id").
		Count(&challenges).Error; err != nil {
		return nil, fmt.Errorf("count challenge attempts: %w", err)
	}

	var minigames int64
	if err := s.db.Model(&models.MiniGameAttempt{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Distinct("mode").
		Count(&minigames).Error; err != nil {
		return nil, fmt.Errorf("count minigame attempts: %w", err)
	}

	var totalTopics int64
	if err := s.db.Model(&models.TutorialTopic{}).Count(&totalTopics).Error; err != nil {
		return nil, fmt.Errorf("count tutorial topics: %w", err)
	}
	var completedTopics int64
	if err := s.db.Model(&models.TutorialProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&completedTopics).Error; err != nil {
		return nil, fmt.Errorf("count tutorial progress: %w", err)
	}

	tutorialPercent := 0.0
	if totalTopics > 0 {
		tutorialPercent = float64(completedTopics) / float64(totalTopics) * 100
	}

	snapshot := &ProgressSnapshot{
		QuizzesPassed:       int(quizzes),
		ChallengesCompleted: int(challenges),
		MiniGamesCompleted:  int(minigames),
		CompletedTopics:     int(completedTopics),
		TotalTopics:         int(totalTopics),
		TutorialPercent:     tutorialPercent,
	}
	snapshot.fill()
	return snapshot, nil
}

// computeGuestStats uses the reduced guest schema: quiz and challenge
// attempts only. Tutorials and mini-games always report zero for guests;
// that asymmetry is intentional and must hold regardless of other activity.
func (s *ProgressService) computeGuestStats(guestSessionID string) (*ProgressSnapshot, error) {
	var quizzes int64
	if err := s.db.Model(&models.GuestQuizAttempt{}).
		Where("guest_session_id = ? AND is_correct = ?", guestSessionID, true).
		Count(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("count guest quiz attempts: %w", err)
	}

	var challenges int64
	if err := s.db.Model(&models.GuestChallengeAttempt{}).
		Where("guest_session_id = ? AND passed = ?", guestSessionID, true).
		Distinct("challenge_id").
		Count(&challenges).Error; err != nil {
		return nil, fmt.Errorf("count guest challenge attempts: %w", err)
	}

	snapshot := &ProgressSnapshot{
		QuizzesPassed:       int(quizzes),
		ChallengesCompleted: int(challenges),
	}
	snapshot.fill()
	return snapshot, nil
}

// Personalization is the "what next" hint attached to a progress response.
type Personalization struct {
	RecommendedDifficulty string `json:"recommended_difficulty"`
	SuggestedActivity     string `json:"suggested_activity"`
}

// Quiz-count bounds for difficulty recommendation.
const (
	mediumQuizThreshold = 10
	hardQuizThreshold   = 25
)

// Personalize derives the hint from the snapshot: difficulty steps up with
// quiz experience, and the suggested activity is the one contributing least
// to the overall score. Guests are only offered activities guests can play.
func (s *ProgressService) Personalize(identity Identity, snapshot *ProgressSnapshot) Personalization {
	difficulty := "easy"
	switch {
	case snapshot.QuizzesPassed >= hardQuizThreshold:
		difficulty = "hard"
	case snapshot.QuizzesPassed >= mediumQuizThreshold:
		difficulty = "medium"
	}

	type contribution struct {
		activity string
		weighted float64
	}
	contributions := []contribution{
		{"quiz", float64(snapshot.QuizzesPassed) * weightQuiz},
		{"challenge", float64(snapshot.ChallengesCompleted) * weightChallenge},
	}
	if _, isUser := identity.(*AuthedUser); isUser {
		contributions = append(contributions,
			contribution{"minigame", float64(snapshot.MiniGamesCompleted) * weightMiniGame},
			contribution{"tutorial", snapshot.TutorialPercent * weightTutorial},
		)
	}

	suggested := contributions[0]
	for _, c := range contributions[1:] {
		if c.weighted < suggested.weighted {
			suggested = c
		}
	}

	return Personalization{
		RecommendedDifficulty: difficulty,
		SuggestedActivity:     suggested.activity,
	}
}

// fill derives the weighted overall value and the synthetic trend fields.
func (p *ProgressSnapshot) fill() {
	overall := float64(p.ChallengesCompleted)*weightChallenge +
		float64(p.QuizzesPassed)*weightQuiz +
		float64(p.MiniGamesCompleted)*weightMiniGame +
		p.TutorialPercent*weightTutorial
	if overall > 100 {
		overall = 100
	}
	p.OverallProgress = overall
	p.LastWeekProgress = overall * trendWeekFactor
	p.LastMonthProgress = overall * trendMonthFactor
}
