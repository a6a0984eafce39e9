package routes

import (
	"net/http"

	"codegaming/handlers"
	"codegaming/logger"
	"codegaming/middleware"
	"codegaming/models"
	"codegaming/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	guestHandler *handlers.GuestHandler,
	progressHandler *handlers.ProgressHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	achievementHandler *handlers.AchievementHandler,
	attemptHandler *handlers.AttemptHandler,
	adminHandler *handlers.AdminHandler,
	hub *services.Hub,
	sessionService *services.SessionService,
	csrfService *services.CSRFService,
	log *logger.Logger,
) {
	// Session resolution runs on every request; individual routes decide
	// whether an identity is required.
	router.Use(middleware.Session(sessionService))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/profile", middleware.RequireAuth(), authHandler.GetProfile)
		}

		api.GET("/csrf-token", authHandler.CSRFToken)

		guests := api.Group("/guest-session")
		{
			guests.POST("", middleware.CSRF(csrfService), guestHandler.Create)
			guests.GET("/check", guestHandler.CheckNickname)
		}

		api.GET("/progress", progressHandler.Get)

		leaderboard := api.Group("/leaderboard")
		{
			leaderboard.GET("/quiz", leaderboardHandler.QuizBoard)
			leaderboard.POST("/quiz", middleware.CSRF(csrfService), leaderboardHandler.SubmitQuiz)
			leaderboard.GET("/challenge", leaderboardHandler.ChallengeBoard)
			leaderboard.POST("/challenge", middleware.CSRF(csrfService), leaderboardHandler.SubmitChallenge)
		}

		// Quiz and challenge attempts take either identity track; guests
		// name their session in the body. Mini-games and tutorials are
		// account features and stay behind RequireAuth.
		attempts := api.Group("/attempts")
		{
			attempts.POST("/quiz", attemptHandler.RecordQuiz)
			attempts.POST("/challenge", attemptHandler.RecordChallenge)
			attempts.POST("/minigame", middleware.RequireAuth(), attemptHandler.RecordMiniGame)
		}

		protected := api.Group("/")
		protected.Use(middleware.RequireAuth())
		{
			achievements := protected.Group("/achievements")
			{
				achievements.GET("", achievementHandler.List)
				achievements.POST("/award", middleware.CSRF(csrfService), achievementHandler.Award)
			}

			protected.POST("/tutorials/:topic/complete", attemptHandler.CompleteTutorial)

			protected.GET("/notifications", adminHandler.ListNotifications)
			protected.POST("/notifications/:id/read", adminHandler.MarkNotificationRead)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.GET("/announcements", adminHandler.ListAnnouncements)
			admin.POST("/announcements", adminHandler.CreateAnnouncement)
			admin.DELETE("/announcements/:id", adminHandler.DeleteAnnouncement)
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/actions", adminHandler.ListActions)
		}
	}

	// WebSocket endpoint for live leaderboard updates.
	router.GET("/ws/leaderboard", func(c *gin.Context) {
		kind := c.DefaultQuery("kind", models.ScoreKindQuiz)
		category := c.Query("category")
		if kind == models.ScoreKindQuiz {
			if err := services.ValidateQuizDifficulty(category); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid difficulty", "code": "validation"})
				return
			}
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", "error", err)
			return
		}
		hub.RegisterClient(conn, kind, category)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
