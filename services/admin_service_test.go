package services

import (
	"errors"
	"testing"

	"codegaming/models"

	"gorm.io/gorm"
)

func TestAnnouncementLifecycleWritesAuditLog(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, testLogger())
	admin := createTestUser(t, db, "root")

	announcement, err := svc.CreateAnnouncement(admin.ID, &CreateAnnouncementRequest{
		Title: "Maintenance window",
		Body:  "Saturday 02:00 UTC",
	})
	if err != nil {
		t.Fatalf("CreateAnnouncement failed: %v", err)
	}

	list, err := svc.ListAnnouncements()
	if err != nil {
		t.Fatalf("ListAnnouncements failed: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Maintenance window" {
		t.Errorf("announcements = %+v", list)
	}

	if err := svc.DeleteAnnouncement(admin.ID, announcement.ID); err != nil {
		t.Fatalf("DeleteAnnouncement failed: %v", err)
	}
	if err := svc.DeleteAnnouncement(admin.ID, announcement.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("double delete err = %v, want gorm.ErrRecordNotFound", err)
	}

	// Both mutations left audit rows.
	actions, err := svc.ListActions(10)
	if err != nil {
		t.Fatalf("ListActions failed: %v", err)
	}
	if len(actions) != 2 {
		t.Errorf("audit rows = %d, want 2", len(actions))
	}
}

func TestNotifications(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, testLogger())
	user := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")

	mustCreate(t, db, &models.Notification{UserID: user.ID, Title: "hello"})
	mustCreate(t, db, &models.Notification{UserID: other.ID, Title: "not yours"})

	notifications, err := svc.ListNotifications(user.ID)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("notifications = %d, want only the user's own", len(notifications))
	}

	if err := svc.MarkNotificationRead(user.ID, notifications[0].ID); err != nil {
		t.Fatalf("MarkNotificationRead failed: %v", err)
	}
	// Users cannot mark someone else's notification.
	var foreign models.Notification
	db.First(&foreign, "user_id = ?", other.ID)
	if err := svc.MarkNotificationRead(user.ID, foreign.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("foreign notification err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, testLogger())
	user := createTestUser(t, db, "alice")
	createTestGuest(t, db, "guest-1", "speedy")
	mustCreate(t, db, &models.QuizAttempt{UserID: user.ID, Difficulty: "easy"})

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalUsers != 1 || stats.TotalGuests != 1 || stats.QuizAttempts != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
