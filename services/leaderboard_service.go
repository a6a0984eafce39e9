package services

import (
	"errors"
	"sort"
	"time"

	"codegaming/logger"
	"codegaming/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidScope      = errors.New("invalid scope")
)

// Leaderboard time-window scopes.
const (
	ScopeAllTime = "alltime"
	ScopeWeekly  = "weekly"
	ScopeMonthly = "monthly"
)

var quizDifficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

// LeaderboardEntry is one ranked row. User and guest rows share this shape
// once merged; IsGuest only affects presentation.
type LeaderboardEntry struct {
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	TimeTaken int       `json:"time"`
	Accuracy  float64   `json:"accuracy"`
	PlayedAt  time.Time `json:"played_at"`
	IsGuest   bool      `json:"is_guest"`
}

// LeaderboardService merges the user and guest score tracks into one ranked
// view. The two tracks live in separate tables with separate foreign keys;
// this service is the only place they are reconciled into a single ordering.
type LeaderboardService struct {
	db   *gorm.DB
	log  *logger.Logger
	topN int
	now  func() time.Time
}

func NewLeaderboardService(db *gorm.DB, log *logger.Logger, topN int) *LeaderboardService {
	if topN <= 0 {
		topN = 10
	}
	return &LeaderboardService{
		db:   db,
		log:  log.With("service", "LeaderboardService"),
		topN: topN,
		now:  time.Now,
	}
}

// ValidateQuizDifficulty gates the quiz leaderboard filter to the fixed enum.
func ValidateQuizDifficulty(difficulty string) error {
	if !quizDifficulties[difficulty] {
		return ErrInvalidDifficulty
	}
	return nil
}

// Rank returns the merged top-N for one (kind, category) board within the
// given scope: both tracks are queried with the same time-window predicate,
// unioned in memory, sorted by score descending with recency breaking ties,
// and truncated.
func (s *LeaderboardService) Rank(kind, category, scope string) ([]LeaderboardEntry, error) {
	cutoff, err := s.scopeCutoff(scope)
	if err != nil {
		return nil, err
	}

	userRows, err := s.userTrack(kind, category, cutoff)
	if err != nil {
		return nil, err
	}
	guestRows, err := s.guestTrack(kind, category, cutoff)
	if err != nil {
		return nil, err
	}

	merged := append(userRows, guestRows...)
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].PlayedAt.After(merged[j].PlayedAt)
	})
	if len(merged) > s.topN {
		merged = merged[:s.topN]
	}
	return merged, nil
}

// SubmitScoreRequest is built by the transport layer after it has validated
// and bounded the raw input.
type SubmitScoreRequest struct {
	Kind      string
	Category  string
	Score     int
	TimeTaken int
	Correct   int
	Total     int
}

// Submit records a score with upsert-with-max semantics: the stored score is
// never lowered, and the auxiliary fields (time, counts, played_at) are only
// refreshed when the new score beats the old one. The conditional update is
// a single statement, so concurrent submits cannot interleave a downgrade.
func (s *LeaderboardService) Submit(identity Identity, req *SubmitScoreRequest) error {
	now := s.now()
	switch id := identity.(type) {
	case *AuthedUser:
		row := models.UserScore{
			UserID:    id.User.ID,
			Kind:      req.Kind,
			Category:  req.Category,
			Score:     req.Score,
			TimeTaken: req.TimeTaken,
			Correct:   req.Correct,
			Total:     req.Total,
			PlayedAt:  now,
		}
		return s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "kind"}, {Name: "category"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"score":      req.Score,
				"time_taken": req.TimeTaken,
				"correct":    req.Correct,
				"total":      req.Total,
				"played_at":  now,
				"updated_at": now,
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "user_scores.score < ?", Vars: []interface{}{req.Score}},
			}},
		}).Create(&row).Error
	case *GuestUser:
		row := models.GuestScore{
			GuestSessionID: id.Session.ID,
			Nickname:       id.Session.Nickname,
			Kind:           req.Kind,
			Category:       req.Category,
			Score:          req.Score,
			TimeTaken:      req.TimeTaken,
			Correct:        req.Correct,
			Total:          req.Total,
			PlayedAt:       now,
		}
		return s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "guest_session_id"}, {Name: "kind"}, {Name: "category"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"score":      req.Score,
				"time_taken": req.TimeTaken,
				"correct":    req.Correct,
				"total":      req.Total,
				"played_at":  now,
				"updated_at": now,
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "guest_scores.score < ?", Vars: []interface{}{req.Score}},
			}},
		}).Create(&row).Error
	default:
		return errors.New("unsupported identity type")
	}
}

// UserBest returns the caller's own row on a board, or nil when they haven't
// played it.
func (s *LeaderboardService) UserBest(identity Identity, kind, category string) (*LeaderboardEntry, error) {
	switch id := identity.(type) {
	case *AuthedUser:
		var row models.UserScore
		err := s.db.First(&row, "user_id = ? AND kind = ? AND category = ?", id.User.ID, kind, category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		entry := toEntry(id.User.Username, row.Score, row.TimeTaken, row.Correct, row.Total, row.PlayedAt, false)
		return &entry, nil
	case *GuestUser:
		var row models.GuestScore
		err := s.db.First(&row, "guest_session_id = ? AND kind = ? AND category = ?", id.Session.ID, kind, category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		entry := toEntry(row.Nickname, row.Score, row.TimeTaken, row.Correct, row.Total, row.PlayedAt, true)
		return &entry, nil
	default:
		return nil, nil
	}
}

func (s *LeaderboardService) scopeCutoff(scope string) (time.Time, error) {
	switch scope {
	case ScopeAllTime, "":
		return time.Time{}, nil
	case ScopeWeekly:
		return s.now().AddDate(0, 0, -7), nil
	case ScopeMonthly:
		return s.now().AddDate(0, 0, -30), nil
	default:
		return time.Time{}, ErrInvalidScope
	}
}

func (s *LeaderboardService) userTrack(kind, category string, cutoff time.Time) ([]LeaderboardEntry, error) {
	query := s.db.Model(&models.UserScore{}).
		Select("users.username AS username, user_scores.score, user_scores.time_taken, user_scores.correct, user_scores.total, user_scores.played_at").
		Joins("JOIN users ON users.id = user_scores.user_id").
		Where("user_scores.kind = ? AND user_scores.category = ?", kind, category)
	if !cutoff.IsZero() {
		query = query.Where("user_scores.played_at >= ?", cutoff)
	}

	var rows []struct {
		Username  string
		Score     int
		TimeTaken int
		Correct   int
		Total     int
		PlayedAt  time.Time
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, toEntry(r.Username, r.Score, r.TimeTaken, r.Correct, r.Total, r.PlayedAt, false))
	}
	return entries, nil
}

func (s *LeaderboardService) guestTrack(kind, category string, cutoff time.Time) ([]LeaderboardEntry, error) {
	query := s.db.Model(&models.GuestScore{}).
		Where("kind = ? AND category = ?", kind, category)
	if !cutoff.IsZero() {
		query = query.Where("played_at >= ?", cutoff)
	}

	var rows []models.GuestScore
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, toEntry(r.Nickname, r.Score, r.TimeTaken, r.Correct, r.Total, r.PlayedAt, true))
	}
	return entries, nil
}

func toEntry(name string, score, timeTaken, correct, total int, playedAt time.Time, guest bool) LeaderboardEntry {
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}
	return LeaderboardEntry{
		Username:  name,
		Score:     score,
		TimeTaken: timeTaken,
		Accuracy:  accuracy,
		PlayedAt:  playedAt,
		IsGuest:   guest,
	}
}
