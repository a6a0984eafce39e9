package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"codegaming/logger"
	"codegaming/middleware"
	"codegaming/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	adminService *services.AdminService
	log          *logger.Logger
}

func NewAdminHandler(adminService *services.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		log:          log.With("handler", "AdminHandler"),
	}
}

func (h *AdminHandler) CreateAnnouncement(c *gin.Context) {
	authed, _ := middleware.CurrentUser(c)

	var req services.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	announcement, err := h.adminService.CreateAnnouncement(authed.User.ID, &req)
	if err != nil {
		h.log.Error("announcement creation failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "announcement": announcement})
}

func (h *AdminHandler) ListAnnouncements(c *gin.Context) {
	announcements, err := h.adminService.ListAnnouncements()
	if err != nil {
		h.log.Error("announcement listing failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "announcements": announcements})
}

func (h *AdminHandler) DeleteAnnouncement(c *gin.Context) {
	authed, _ := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, codeValidation, "Invalid announcement ID")
		return
	}

	if err := h.adminService.DeleteAnnouncement(authed.User.ID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, codeNotFound, "Announcement not found")
			return
		}
		h.log.Error("announcement deletion failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats()
	if err != nil {
		h.log.Error("dashboard stats failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (h *AdminHandler) ListActions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	actions, err := h.adminService.ListActions(limit)
	if err != nil {
		h.log.Error("action log listing failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "actions": actions})
}

func (h *AdminHandler) ListNotifications(c *gin.Context) {
	authed, _ := middleware.CurrentUser(c)
	notifications, err := h.adminService.ListNotifications(authed.User.ID)
	if err != nil {
		h.log.Error("notification listing failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})
}

func (h *AdminHandler) MarkNotificationRead(c *gin.Context) {
	authed, _ := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, codeValidation, "Invalid notification ID")
		return
	}

	if err := h.adminService.MarkNotificationRead(authed.User.ID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, codeNotFound, "Notification not found")
			return
		}
		h.log.Error("notification update failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
