package services

import (
	"codegaming/logger"
	"codegaming/models"

	"gorm.io/gorm"
)

// AdminService backs the administrative back-office: announcements, the
// action audit log and dashboard counts. Every mutation appends an
// AdminAction row.
type AdminService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdminService(db *gorm.DB, log *logger.Logger) *AdminService {
	return &AdminService{db: db, log: log.With("service", "AdminService")}
}

type CreateAnnouncementRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body" binding:"max=5000"`
}

func (s *AdminService) CreateAnnouncement(adminID uint, req *CreateAnnouncementRequest) (*models.Announcement, error) {
	announcement := models.Announcement{
		AuthorID: adminID,
		Title:    req.Title,
		Body:     req.Body,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&announcement).Error; err != nil {
			return err
		}
		return tx.Create(&models.AdminAction{
			AdminID: adminID,
			Action:  "create_announcement",
			Target:  announcement.Title,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (s *AdminService) ListAnnouncements() ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := s.db.Preload("Author").Order("created_at DESC").Find(&announcements).Error
	return announcements, err
}

func (s *AdminService) DeleteAnnouncement(adminID, announcementID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Announcement{}, announcementID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&models.AdminAction{
			AdminID: adminID,
			Action:  "delete_announcement",
		}).Error
	})
}

func (s *AdminService) ListActions(limit int) ([]models.AdminAction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var actions []models.AdminAction
	err := s.db.Order("created_at DESC").Limit(limit).Find(&actions).Error
	return actions, err
}

// DashboardStats are plain aggregate counts for the admin landing page.
type DashboardStats struct {
	TotalUsers         int64 `json:"total_users"`
	TotalGuests        int64 `json:"total_guests"`
	QuizAttempts       int64 `json:"quiz_attempts"`
	ChallengeAttempts  int64 `json:"challenge_attempts"`
	MiniGameAttempts   int64 `json:"minigame_attempts"`
	AchievementsEarned int64 `json:"achievements_earned"`
}

func (s *AdminService) Stats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &stats.TotalUsers},
		{&models.GuestSession{}, &stats.TotalGuests},
		{&models.QuizAttempt{}, &stats.QuizAttempts},
		{&models.ChallengeAttempt{}, &stats.ChallengeAttempts},
		{&models.MiniGameAttempt{}, &stats.MiniGameAttempts},
		{&models.UserAchievement{}, &stats.AchievementsEarned},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// Notifications are user-facing but managed here alongside the other simple
// timestamped records.

func (s *AdminService) ListNotifications(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(50).Find(&notifications).Error
	return notifications, err
}

func (s *AdminService) MarkNotificationRead(userID, notificationID uint) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
