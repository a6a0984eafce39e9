package services

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"codegaming/logger"
	"codegaming/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	ErrNicknameTaken   = errors.New("nickname is already taken")
	ErrInvalidNickname = errors.New("nickname must be between 2 and 50 characters")
	ErrGuestNotFound   = errors.New("guest session not found")
)

const guestLivenessTTL = 24 * time.Hour

// GuestService manages ephemeral guest identities. Nickname uniqueness is
// enforced by the unique index on guest_sessions.nickname; the availability
// check is advisory only and creation always re-checks through the insert.
type GuestService struct {
	db    *gorm.DB
	log   *logger.Logger
	redis *redis.Client
}

func NewGuestService(db *gorm.DB, log *logger.Logger, redisClient *redis.Client) *GuestService {
	return &GuestService{
		db:    db,
		log:   log.With("service", "GuestService"),
		redis: redisClient,
	}
}

type CreateGuestRequest struct {
	Nickname  string `json:"nickname" binding:"required"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

// Create allocates a new guest session. Validation failures and nickname
// collisions come back as declined results; no partial record is written.
func (s *GuestService) Create(req *CreateGuestRequest) (*models.GuestSession, error) {
	nickname := strings.TrimSpace(req.Nickname)
	if len(nickname) < 2 || len(nickname) > 50 {
		return nil, ErrInvalidNickname
	}

	ip := req.IPAddress
	if net.ParseIP(ip) == nil {
		// Unparseable addresses are recorded as a sentinel, not rejected.
		ip = "unknown"
	}

	now := time.Now()
	session := models.GuestSession{
		ID:           uuid.New().String(),
		Nickname:     nickname,
		IPAddress:    ip,
		UserAgent:    truncate(req.UserAgent, 255),
		CreatedAt:    now,
		LastActiveAt: now,
	}
	if err := s.db.Create(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return nil, ErrNicknameTaken
		}
		return nil, err
	}

	if s.redis != nil {
		// best-effort liveness marker
		if err := s.redis.Set(context.Background(), "guest:session:"+session.ID, "1", guestLivenessTTL).Err(); err != nil {
			s.log.Warn("failed to set guest liveness key", "error", err)
		}
	}

	return &session, nil
}

// CheckNickname reports whether the nickname is currently unused. The result
// can go stale immediately; Create is the authoritative check.
func (s *GuestService) CheckNickname(nickname string) (bool, error) {
	nickname = strings.TrimSpace(nickname)
	if len(nickname) < 2 || len(nickname) > 50 {
		return false, nil
	}
	var count int64
	err := s.db.Model(&models.GuestSession{}).Where("nickname = ?", nickname).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Lookup resolves a guest identity by session ID and nickname; both must
// match the stored record.
func (s *GuestService) Lookup(sessionID, nickname string) (*models.GuestSession, error) {
	var session models.GuestSession
	err := s.db.First(&session, "id = ? AND nickname = ?", sessionID, strings.TrimSpace(nickname)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&models.GuestSession{}).Where("id = ?", session.ID).
		Update("last_active_at", time.Now()).Error; err != nil {
		s.log.Warn("failed to update guest last-active", "error", err)
	}
	return &session, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
