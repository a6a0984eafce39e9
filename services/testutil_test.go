package services

import (
	"testing"

	"codegaming/logger"
	"codegaming/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema. Each
// call gets its own database; MaxOpenConns(1) keeps gorm's pool on the single
// in-memory connection.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RolePlayer,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestGuest(t *testing.T, db *gorm.DB, id, nickname string) *models.GuestSession {
	t.Helper()
	guest := &models.GuestSession{
		ID:       id,
		Nickname: nickname,
	}
	if err := db.Create(guest).Error; err != nil {
		t.Fatalf("failed to create test guest: %v", err)
	}
	return guest
}
