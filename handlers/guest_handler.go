package handlers

import (
	"errors"
	"net/http"

	"codegaming/logger"
	"codegaming/services"

	"github.com/gin-gonic/gin"
)

type GuestHandler struct {
	guestService *services.GuestService
	log          *logger.Logger
}

func NewGuestHandler(guestService *services.GuestService, log *logger.Logger) *GuestHandler {
	return &GuestHandler{
		guestService: guestService,
		log:          log.With("handler", "GuestHandler"),
	}
}

// Create opens a guest session. The client's IP and user agent are taken
// from the connection when the body doesn't supply them.
func (h *GuestHandler) Create(c *gin.Context) {
	var req services.CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	if req.IPAddress == "" {
		req.IPAddress = c.ClientIP()
	}
	if req.UserAgent == "" {
		req.UserAgent = c.Request.UserAgent()
	}

	session, err := h.guestService.Create(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidNickname):
			fail(c, http.StatusBadRequest, codeValidation, err.Error())
		case errors.Is(err, services.ErrNicknameTaken):
			fail(c, http.StatusConflict, codeConflict, err.Error())
		default:
			h.log.Error("guest session creation failed", "error", err)
			fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":          true,
		"guest_session_id": session.ID,
		"nickname":         session.Nickname,
	})
}

func (h *GuestHandler) CheckNickname(c *gin.Context) {
	nickname := c.Query("nickname")
	available, err := h.guestService.CheckNickname(nickname)
	if err != nil {
		h.log.Error("nickname check failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}
