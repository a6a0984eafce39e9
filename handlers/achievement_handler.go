package handlers

import (
	"errors"
	"net/http"

	"codegaming/logger"
	"codegaming/middleware"
	"codegaming/services"

	"github.com/gin-gonic/gin"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
	log                *logger.Logger
}

func NewAchievementHandler(achievementService *services.AchievementService, log *logger.Logger) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
		log:                log.With("handler", "AchievementHandler"),
	}
}

// List returns every definition plus the caller's earned set.
func (h *AchievementHandler) List(c *gin.Context) {
	authed, _ := middleware.CurrentUser(c)
	defs, grants, err := h.achievementService.ListForUser(authed.User.ID)
	if err != nil {
		h.log.Error("achievement listing failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"achievements": defs,
		"earned":       grants,
	})
}

type awardAchievementRequest struct {
	AchievementID    string `json:"achievement_id" binding:"required"`
	ChallengeScore   int    `json:"challenge_score" binding:"min=0"`
	QuestionsCorrect int    `json:"questions_correct" binding:"min=0"`
	TotalQuestions   int    `json:"total_questions" binding:"min=0"`
}

// Award handles the score-based achievement path: the challenge-completion
// flow reports its submission values and names the achievement to check.
func (h *AchievementHandler) Award(c *gin.Context) {
	authed, _ := middleware.CurrentUser(c)

	var req awardAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	achievement, alreadyEarned, err := h.achievementService.AwardForScore(
		authed.User.ID, req.AchievementID, req.ChallengeScore, req.QuestionsCorrect, req.TotalQuestions)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownAchievement):
			fail(c, http.StatusNotFound, codeNotFound, err.Error())
		case errors.Is(err, services.ErrCriteriaNotMet):
			fail(c, http.StatusBadRequest, codeValidation, err.Error())
		default:
			h.log.Error("achievement award failed", "error", err)
			fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		}
		return
	}

	if alreadyEarned {
		c.JSON(http.StatusOK, gin.H{"success": true, "already_earned": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "achievement": achievement})
}
