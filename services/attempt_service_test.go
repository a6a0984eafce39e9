package services

import (
	"errors"
	"testing"

	"codegaming/models"

	"gorm.io/gorm"
)

func TestRecordQuizBothTracks(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttemptService(db, testLogger())
	user := createTestUser(t, db, "alice")
	guest := createTestGuest(t, db, "guest-1", "speedy")

	req := &QuizAttemptRequest{Difficulty: "medium", IsCorrect: true, Points: 2}
	if err := svc.RecordQuiz(&AuthedUser{User: *user}, req); err != nil {
		t.Fatalf("user RecordQuiz failed: %v", err)
	}
	if err := svc.RecordQuiz(&GuestUser{Session: *guest}, req); err != nil {
		t.Fatalf("guest RecordQuiz failed: %v", err)
	}

	var userCount, guestCount int64
	db.Model(&models.QuizAttempt{}).Count(&userCount)
	db.Model(&models.GuestQuizAttempt{}).Count(&guestCount)
	if userCount != 1 || guestCount != 1 {
		t.Errorf("attempt rows = %d user / %d guest, want 1/1", userCount, guestCount)
	}

	badReq := &QuizAttemptRequest{Difficulty: "impossible"}
	if err := svc.RecordQuiz(&AuthedUser{User: *user}, badReq); !errors.Is(err, ErrInvalidDifficulty) {
		t.Errorf("bad difficulty err = %v, want ErrInvalidDifficulty", err)
	}
}

func TestRecordMiniGameRejectsGuests(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttemptService(db, testLogger())
	guest := createTestGuest(t, db, "guest-1", "speedy")

	err := svc.RecordMiniGame(&GuestUser{Session: *guest}, &MiniGameAttemptRequest{Mode: "speed"})
	if !errors.Is(err, ErrGuestsNotAllowed) {
		t.Errorf("err = %v, want ErrGuestsNotAllowed", err)
	}
}

func TestCompleteTutorialTopic(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttemptService(db, testLogger())
	user := createTestUser(t, db, "alice")
	topics := seedTopics(t, db, 2)

	if err := svc.CompleteTutorialTopic(user.ID, topics[0].ID); err != nil {
		t.Fatalf("CompleteTutorialTopic failed: %v", err)
	}
	// Completing the same topic again is a no-op, not an error.
	if err := svc.CompleteTutorialTopic(user.ID, topics[0].ID); err != nil {
		t.Fatalf("repeat completion failed: %v", err)
	}

	var rows []models.TutorialProgress
	db.Where("user_id = ?", user.ID).Find(&rows)
	if len(rows) != 1 {
		t.Fatalf("progress rows = %d, want 1", len(rows))
	}
	if !rows[0].Completed || rows[0].CompletedAt == nil {
		t.Errorf("progress row not completed: %+v", rows[0])
	}

	if err := svc.CompleteTutorialTopic(user.ID, 999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("unknown topic err = %v, want gorm.ErrRecordNotFound", err)
	}
}
