package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codegaming/handlers"
	"codegaming/logger"
	"codegaming/models"
	"codegaming/routes"
	"codegaming/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	guests *services.GuestService
}

// newTestApp wires the real router against sqlite and miniredis so handler
// tests cover the middleware chain as well.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.GuestSession{},
		&models.QuizAttempt{},
		&models.GuestQuizAttempt{},
		&models.ChallengeAttempt{},
		&models.GuestChallengeAttempt{},
		&models.MiniGameAttempt{},
		&models.TutorialTopic{},
		&models.TutorialProgress{},
		&models.UserScore{},
		&models.GuestScore{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Announcement{},
		&models.Notification{},
		&models.AdminAction{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	zlog := logger.NewNop()
	sessionService := services.NewSessionService(db, zlog, "test-secret", time.Hour, time.Hour)
	authService := services.NewAuthService(db, zlog, sessionService)
	guestService := services.NewGuestService(db, zlog, redisClient)
	progressService := services.NewProgressService(db, zlog)
	achievementService := services.NewAchievementService(db, zlog)
	leaderboardService := services.NewLeaderboardService(db, zlog, 10)
	attemptService := services.NewAttemptService(db, zlog)
	adminService := services.NewAdminService(db, zlog)
	csrfService := services.NewCSRFService(redisClient, zlog)

	if err := achievementService.Seed(); err != nil {
		t.Fatalf("failed to seed achievements: %v", err)
	}

	hub := services.NewHub(zlog)
	go hub.Run()

	router := gin.New()
	routes.SetupRoutes(router,
		handlers.NewAuthHandler(authService, csrfService, zlog),
		handlers.NewGuestHandler(guestService, zlog),
		handlers.NewProgressHandler(progressService, achievementService, guestService, zlog),
		handlers.NewLeaderboardHandler(leaderboardService, guestService, hub, zlog),
		handlers.NewAchievementHandler(achievementService, zlog),
		handlers.NewAttemptHandler(attemptService, guestService, zlog),
		handlers.NewAdminHandler(adminService, zlog),
		hub, sessionService, csrfService, zlog)

	return &testApp{router: router, db: db, guests: guestService}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	a.router.ServeHTTP(recorder, req)

	var parsed map[string]interface{}
	if recorder.Body.Len() > 0 {
		if err := json.Unmarshal(recorder.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("response is not JSON: %v\n%s", err, recorder.Body.String())
		}
	}
	return recorder, parsed
}

// csrfToken fetches an anti-forgery token for the given session key (or
// bearer token when authenticated).
func (a *testApp) csrfToken(t *testing.T, sessionKey, bearer string) string {
	t.Helper()
	headers := map[string]string{}
	if sessionKey != "" {
		headers["X-Session-Id"] = sessionKey
	}
	if bearer != "" {
		headers["Authorization"] = "Bearer " + bearer
	}
	recorder, body := a.do(t, http.MethodGet, "/api/csrf-token", nil, headers)
	if recorder.Code != http.StatusOK {
		t.Fatalf("csrf token request failed: %d %s", recorder.Code, recorder.Body.String())
	}
	token, _ := body["csrf_token"].(string)
	if token == "" {
		t.Fatal("empty csrf token")
	}
	return token
}

// registerAndLogin creates an account through the API and returns its token.
func (a *testApp) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	recorder, _ := a.do(t, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, nil)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", recorder.Code, recorder.Body.String())
	}

	recorder, body := a.do(t, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"username": username,
		"password": "password123",
	}, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", recorder.Code, recorder.Body.String())
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}
	return token
}
