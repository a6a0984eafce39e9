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

type AttemptHandler struct {
	attemptService *services.AttemptService
	guestService   *services.GuestService
	log            *logger.Logger
}

func NewAttemptHandler(attemptService *services.AttemptService, guestService *services.GuestService, log *logger.Logger) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
		guestService:   guestService,
		log:            log.With("handler", "AttemptHandler"),
	}
}

type quizAttemptRequest struct {
	GuestSessionID string `json:"guest_session_id"`
	Nickname       string `json:"nickname"`
	Difficulty     string `json:"difficulty" binding:"required"`
	QuestionID     uint   `json:"question_id"`
	IsCorrect      bool   `json:"is_correct"`
	Points         int    `json:"points" binding:"min=0"`
	TimeTaken      int    `json:"time_taken" binding:"min=0"`
}

type challengeAttemptRequest struct {
	GuestSessionID string `json:"guest_session_id"`
	Nickname       string `json:"nickname"`
	ChallengeID    uint   `json:"challenge_id" binding:"required"`
	Passed         bool   `json:"passed"`
	Points         int    `json:"points" binding:"min=0"`
	TimeTaken      int    `json:"time_taken" binding:"min=0"`
}

// RecordQuiz accepts attempts from users and guests alike; guests identify
// themselves in the body.
func (h *AttemptHandler) RecordQuiz(c *gin.Context) {
	var req quizAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	identity, ok := resolveActor(c, h.guestService, h.log, req.GuestSessionID, req.Nickname)
	if !ok {
		return
	}

	err := h.attemptService.RecordQuiz(identity, &services.QuizAttemptRequest{
		Difficulty: req.Difficulty,
		QuestionID: req.QuestionID,
		IsCorrect:  req.IsCorrect,
		Points:     req.Points,
		TimeTaken:  req.TimeTaken,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidDifficulty) {
			fail(c, http.StatusBadRequest, codeValidation, "Invalid difficulty")
			return
		}
		h.log.Error("quiz attempt record failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// RecordChallenge accepts attempts from users and guests alike.
func (h *AttemptHandler) RecordChallenge(c *gin.Context) {
	var req challengeAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	identity, ok := resolveActor(c, h.guestService, h.log, req.GuestSessionID, req.Nickname)
	if !ok {
		return
	}

	err := h.attemptService.RecordChallenge(identity, &services.ChallengeAttemptRequest{
		ChallengeID: req.ChallengeID,
		Passed:      req.Passed,
		Points:      req.Points,
		TimeTaken:   req.TimeTaken,
	})
	if err != nil {
		h.log.Error("challenge attempt record failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// RecordMiniGame stays user-only; guests have no mini-game history.
func (h *AttemptHandler) RecordMiniGame(c *gin.Context) {
	authed, _ := middleware.CurrentUser(c)

	var req services.MiniGameAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	if err := h.attemptService.RecordMiniGame(authed, &req); err != nil {
		h.log.Error("minigame attempt record failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (h *AttemptHandler) CompleteTutorial(c *gin.Context) {
	authed, _ := middleware.CurrentUser(c)

	topicID, err := strconv.ParseUint(c.Param("topic"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, codeValidation, "Invalid topic ID")
		return
	}

	if err := h.attemptService.CompleteTutorialTopic(authed.User.ID, uint(topicID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, codeNotFound, "Topic not found")
			return
		}
		h.log.Error("tutorial completion failed", "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
