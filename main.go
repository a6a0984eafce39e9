package main

import (
	"log"

	"codegaming/config"
	"codegaming/handlers"
	"codegaming/logger"
	"codegaming/models"
	"codegaming/routes"
	"codegaming/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", "error", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.GuestSession{},
		&models.QuizAttempt{},
		&models.GuestQuizAttempt{},
		&models.ChallengeAttempt{},
		&models.GuestChallengeAttempt{},
		&models.MiniGameAttempt{},
		&models.TutorialTopic{},
		&models.TutorialProgress{},
		&models.UserScore{},
		&models.GuestScore{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Announcement{},
		&models.Notification{},
		&models.AdminAction{},
	)
	if err != nil {
		zlog.Fatal("failed to migrate database", "error", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	sessionService := services.NewSessionService(db, zlog, cfg.JWTSecret, cfg.SessionTTL, cfg.RotateInterval)
	authService := services.NewAuthService(db, zlog, sessionService)
	guestService := services.NewGuestService(db, zlog, redisClient)
	progressService := services.NewProgressService(db, zlog)
	achievementService := services.NewAchievementService(db, zlog)
	leaderboardService := services.NewLeaderboardService(db, zlog, cfg.LeaderboardSize)
	attemptService := services.NewAttemptService(db, zlog)
	adminService := services.NewAdminService(db, zlog)
	csrfService := services.NewCSRFService(redisClient, zlog)

	// Seed the fixed achievement definition table
	if err := achievementService.Seed(); err != nil {
		zlog.Fatal("failed to seed achievements", "error", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub(zlog)
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, csrfService, zlog)
	guestHandler := handlers.NewGuestHandler(guestService, zlog)
	progressHandler := handlers.NewProgressHandler(progressService, achievementService, guestService, zlog)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, guestService, hub, zlog)
	achievementHandler := handlers.NewAchievementHandler(achievementService, zlog)
	attemptHandler := handlers.NewAttemptHandler(attemptService, guestService, zlog)
	adminHandler := handlers.NewAdminHandler(adminService, zlog)

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Add CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders,
		"Authorization", "X-CSRF-Token", "X-Session-Id")
	router.Use(cors.New(corsConfig))

	// Setup routes
	routes.SetupRoutes(router,
		authHandler, guestHandler, progressHandler, leaderboardHandler,
		achievementHandler, attemptHandler, adminHandler,
		hub, sessionService, csrfService, zlog)

	// Start server
	zlog.Info("server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", "error", err)
	}
}
