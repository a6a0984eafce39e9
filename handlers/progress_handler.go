package handlers

import (
	"errors"
	"net/http"

	"codegaming/logger"
	"codegaming/middleware"
	"codegaming/services"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService    *services.ProgressService
	achievementService *services.AchievementService
	guestService       *services.GuestService
	log                *logger.Logger
}

func NewProgressHandler(
	progressService *services.ProgressService,
	achievementService *services.AchievementService,
	guestService *services.GuestService,
	log *logger.Logger,
) *ProgressHandler {
	return &ProgressHandler{
		progressService:    progressService,
		achievementService: achievementService,
		guestService:       guestService,
		log:                log.With("handler", "ProgressHandler"),
	}
}

// Get computes the caller's progress snapshot. Authenticated callers get
// their stats plus achievement evaluation; guests identify themselves with
// guest_session_id and nickname and get the reduced guest snapshot.
func (h *ProgressHandler) Get(c *gin.Context) {
	identity, ok := h.resolveIdentity(c)
	if !ok {
		return
	}

	snapshot, err := h.progressService.ComputeStats(identity)
	if err != nil {
		h.log.Error("failed to compute stats", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Failed to load stats")
		return
	}

	response := gin.H{
		"success":         true,
		"user_stats":      snapshot,
		"progress":        snapshot.OverallProgress,
		"personalization": h.progressService.Personalize(identity, snapshot),
	}

	if authed, isUser := identity.(*services.AuthedUser); isUser {
		newlyAwarded, err := h.achievementService.EvaluateAndAward(authed.User.ID, snapshot)
		if err != nil {
			h.log.Error("achievement evaluation failed", "error", err)
			fail(c, http.StatusInternalServerError, codeServerError, "Failed to load stats")
			return
		}
		_, grants, err := h.achievementService.ListForUser(authed.User.ID)
		if err != nil {
			h.log.Error("achievement listing failed", "error", err)
			fail(c, http.StatusInternalServerError, codeServerError, "Failed to load stats")
			return
		}
		response["achievements"] = grants
		response["newly_awarded"] = newlyAwarded
	}

	c.JSON(http.StatusOK, response)
}

func (h *ProgressHandler) resolveIdentity(c *gin.Context) (services.Identity, bool) {
	if authed, ok := middleware.CurrentUser(c); ok {
		return authed, true
	}

	sessionID := c.Query("guest_session_id")
	nickname := c.Query("nickname")
	if sessionID == "" || nickname == "" {
		fail(c, http.StatusUnauthorized, codeUnauthorized, "User not authenticated")
		return nil, false
	}

	session, err := h.guestService.Lookup(sessionID, nickname)
	if err != nil {
		if errors.Is(err, services.ErrGuestNotFound) {
			fail(c, http.StatusNotFound, codeNotFound, "Guest session not found")
		} else {
			h.log.Error("guest lookup failed", "error", err)
			fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		}
		return nil, false
	}
	return &services.GuestUser{Session: *session}, true
}
