package handlers

import (
	"errors"
	"net/http"

	"codegaming/logger"
	"codegaming/middleware"
	"codegaming/models"
	"codegaming/services"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
	guestService       *services.GuestService
	hub                *services.Hub
	log                *logger.Logger
}

func NewLeaderboardHandler(
	leaderboardService *services.LeaderboardService,
	guestService *services.GuestService,
	hub *services.Hub,
	log *logger.Logger,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		guestService:       guestService,
		hub:                hub,
		log:                log.With("handler", "LeaderboardHandler"),
	}
}

// QuizBoard serves GET /api/leaderboard/quiz?difficulty=&scope=.
func (h *LeaderboardHandler) QuizBoard(c *gin.Context) {
	difficulty := c.Query("difficulty")
	if err := services.ValidateQuizDifficulty(difficulty); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, "Invalid difficulty")
		return
	}
	h.board(c, models.ScoreKindQuiz, difficulty)
}

// ChallengeBoard serves GET /api/leaderboard/challenge?scope=.
func (h *LeaderboardHandler) ChallengeBoard(c *gin.Context) {
	h.board(c, models.ScoreKindChallenge, "")
}

func (h *LeaderboardHandler) board(c *gin.Context, kind, category string) {
	entries, err := h.leaderboardService.Rank(kind, category, c.DefaultQuery("scope", services.ScopeAllTime))
	if err != nil {
		if errors.Is(err, services.ErrInvalidScope) {
			fail(c, http.StatusBadRequest, codeValidation, "Invalid scope")
			return
		}
		h.log.Error("leaderboard query failed", "kind", kind, "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}

	response := gin.H{"success": true, "leaderboard": entries}
	if len(entries) > 0 {
		response["top_player"] = entries[0]
	}

	if identity, ok := h.optionalIdentity(c); ok {
		own, err := h.leaderboardService.UserBest(identity, kind, category)
		if err != nil {
			h.log.Warn("failed to load caller's own score", "error", err)
		} else if own != nil {
			response["user_stats"] = own
		}
	}

	c.JSON(http.StatusOK, response)
}

type submitScoreRequest struct {
	GuestSessionID string `json:"guest_session_id"`
	Nickname       string `json:"nickname"`
	Difficulty     string `json:"difficulty"`
	TotalScore     int    `json:"total_score" binding:"min=0,max=10000"`
	TimeTaken      int    `json:"time_taken" binding:"min=0"`
	Correct        int    `json:"questions_correct" binding:"min=0"`
	Total          int    `json:"total_questions" binding:"min=0"`
}

// SubmitQuiz serves POST /api/leaderboard/quiz (scoped by difficulty).
func (h *LeaderboardHandler) SubmitQuiz(c *gin.Context) {
	var req submitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	if err := services.ValidateQuizDifficulty(req.Difficulty); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, "Invalid difficulty")
		return
	}
	h.submit(c, &req, models.ScoreKindQuiz, req.Difficulty)
}

// SubmitChallenge serves POST /api/leaderboard/challenge.
func (h *LeaderboardHandler) SubmitChallenge(c *gin.Context) {
	var req submitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	h.submit(c, &req, models.ScoreKindChallenge, "")
}

func (h *LeaderboardHandler) submit(c *gin.Context, req *submitScoreRequest, kind, category string) {
	identity, ok := resolveActor(c, h.guestService, h.log, req.GuestSessionID, req.Nickname)
	if !ok {
		return
	}

	err := h.leaderboardService.Submit(identity, &services.SubmitScoreRequest{
		Kind:      kind,
		Category:  category,
		Score:     req.TotalScore,
		TimeTaken: req.TimeTaken,
		Correct:   req.Correct,
		Total:     req.Total,
	})
	if err != nil {
		h.log.Error("score submit failed", "kind", kind, "error", err)
		fail(c, http.StatusInternalServerError, codeServerError, "Server error")
		return
	}

	// Re-rank and push the fresh board to websocket watchers.
	if entries, err := h.leaderboardService.Rank(kind, category, services.ScopeAllTime); err == nil {
		h.hub.BroadcastBoard(kind, category, entries)
	} else {
		h.log.Warn("failed to re-rank board for broadcast", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// optionalIdentity is like resolveActor but silent: board reads work fine
// anonymously.
func (h *LeaderboardHandler) optionalIdentity(c *gin.Context) (services.Identity, bool) {
	if authed, ok := middleware.CurrentUser(c); ok {
		return authed, true
	}
	sessionID := c.Query("guest_session_id")
	nickname := c.Query("nickname")
	if sessionID == "" || nickname == "" {
		return nil, false
	}
	session, err := h.guestService.Lookup(sessionID, nickname)
	if err != nil {
		return nil, false
	}
	return &services.GuestUser{Session: *session}, true
}
