package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"codegaming/logger"

	"github.com/redis/go-redis/v9"
)

var ErrBadCSRFToken = errors.New("invalid or missing anti-forgery token")

const csrfTTL = 1 * time.Hour

// CSRFService issues and checks per-session anti-forgery tokens backed by
// redis. The session key is the auth session ID for logged-in users or a
// client-supplied session ID for anonymous flows.
type CSRFService struct {
	redis *redis.Client
	log   *logger.Logger
}

func NewCSRFService(redisClient *redis.Client, log *logger.Logger) *CSRFService {
	return &CSRFService{redis: redisClient, log: log.With("service", "CSRFService")}
}

// Issue creates (or refreshes) the token for the session key.
func (s *CSRFService) Issue(ctx context.Context, sessionKey string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	if err := s.redis.Set(ctx, "csrf:"+sessionKey, token, csrfTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Validate compares the presented token with the stored one.
func (s *CSRFService) Validate(ctx context.Context, sessionKey, token string) error {
	if sessionKey == "" || token == "" {
		return ErrBadCSRFToken
	}
	stored, err := s.redis.Get(ctx, "csrf:"+sessionKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Error("csrf token lookup failed", "error", err)
		}
		return ErrBadCSRFToken
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return ErrBadCSRFToken
	}
	return nil
}
