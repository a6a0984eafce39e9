package services

import (
	"errors"
	"time"

	"codegaming/logger"
	"codegaming/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService resolves bearer tokens to authenticated identities. The JWT
// is only an envelope: the authoritative state (expiry, rotation, last-seen)
// is the user_sessions row referenced by the token's ID claim, so sessions
// can be revoked server-side at any time.
type SessionService struct {
	db             *gorm.DB
	log            *logger.Logger
	jwtSecret      []byte
	sessionTTL     time.Duration
	rotateInterval time.Duration
	now            func() time.Time
}

func NewSessionService(db *gorm.DB, log *logger.Logger, jwtSecret string, sessionTTL, rotateInterval time.Duration) *SessionService {
	return &SessionService{
		db:             db,
		log:            log.With("service", "SessionService"),
		jwtSecret:      []byte(jwtSecret),
		sessionTTL:     sessionTTL,
		rotateInterval: rotateInterval,
		now:            time.Now,
	}
}

// Create opens a new session for the user and returns the signed token.
func (s *SessionService) Create(userID uint) (string, error) {
	now := s.now()
	session := models.UserSession{
		ID:         uuid.New().String(),
		UserID:     userID,
		ExpiresAt:  now.Add(s.sessionTTL),
		RotatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return "", err
	}
	return s.sign(session.ID, session.ExpiresAt)
}

// Destroy removes the session row, invalidating every token that references it.
func (s *SessionService) Destroy(sessionID string) error {
	return s.db.Delete(&models.UserSession{}, "id = ?", sessionID).Error
}

// Resolve maps a bearer token to an authenticated user. A missing, invalid
// or expired token is a normal outcome, reported as ok=false; it is never an
// error. Resolution also touches the last-seen stamp (best effort) and
// rotates the session ID once the rotation interval has elapsed.
func (s *SessionService) Resolve(tokenString string) (*AuthedUser, bool) {
	if tokenString == "" {
		return nil, false
	}

	sessionID, err := s.parse(tokenString)
	if err != nil {
		return nil, false
	}

	var session models.UserSession
	if err := s.db.Preload("User").First(&session, "id = ?", sessionID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("session lookup failed", "error", err)
		}
		return nil, false
	}

	now := s.now()
	if session.ExpiresAt.Before(now) {
		// Expired sessions are cleaned up lazily on the request that finds them.
		_ = s.db.Delete(&models.UserSession{}, "id = ?", session.ID).Error
		return nil, false
	}

	authed := &AuthedUser{User: session.User, SessionID: session.ID}

	// Last-seen is best effort; a failed write must not block the request.
	if err := s.db.Model(&models.UserSession{}).Where("id = ?", session.ID).
		Update("last_seen_at", now).Error; err != nil {
		s.log.Warn("failed to update session last-seen", "error", err)
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", session.UserID).
		Update("last_seen_at", now).Error; err != nil {
		s.log.Warn("failed to update user last-seen", "error", err)
	}

	if now.Sub(session.RotatedAt) >= s.rotateInterval {
		if renewed, err := s.rotate(&session, now); err != nil {
			s.log.Warn("session rotation failed", "session_id", session.ID, "error", err)
		} else {
			authed.SessionID = renewed.sessionID
			authed.RenewedToken = renewed.token
		}
	}

	return authed, true
}

type rotatedSession struct {
	sessionID string
	token     string
}

// rotate replaces the session ID to bound session-fixation exposure. The old
// row is swapped for a new one in a single transaction; the expiry carries
// over unchanged.
func (s *SessionService) rotate(session *models.UserSession, now time.Time) (*rotatedSession, error) {
	fresh := models.UserSession{
		ID:         uuid.New().String(),
		UserID:     session.UserID,
		ExpiresAt:  session.ExpiresAt,
		RotatedAt:  now,
		LastSeenAt: now,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.UserSession{}, "id = ?", session.ID).Error; err != nil {
			return err
		}
		return tx.Create(&fresh).Error
	})
	if err != nil {
		return nil, err
	}
	token, err := s.sign(fresh.ID, fresh.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &rotatedSession{sessionID: fresh.ID, token: token}, nil
}

func (s *SessionService) sign(sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(s.now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *SessionService) parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.ID, nil
}
