package main

import (
	"log"
	"log/slog"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/keithshino/one-on-one-supporter/internal/config"
	"github.com/keithshino/one-on-one-supporter/internal/constants"
	"github.com/keithshino/one-on-one-supporter/internal/database"
	"github.com/keithshino/one-on-one-supporter/internal/events"
	"github.com/keithshino/one-on-one-supporter/internal/handlers"
	"github.com/keithshino/one-on-one-supporter/internal/logger"
	"github.com/keithshino/one-on-one-supporter/internal/middleware"
	"github.com/keithshino/one-on-one-supporter/internal/repository"
	"github.com/keithshino/one-on-one-supporter/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	db := database.GetDB()
	memberRepo := repository.NewMemberRepository(db)
	logRepo := repository.NewLogRepository(db)

	// Change notification hub for live-updating clients
	hub := events.NewHub()

	// Initialize AI service (optional: summarization degrades gracefully)
	var summaryService *services.SummaryService
	if cfg.OpenAIAPIKey != "" {
		summaryService = services.NewSummaryService(cfg.OpenAIAPIKey)
	} else {
		slog.Warn("OPENAI_API_KEY not set; AI summarization disabled")
	}

	// Services
	authService := services.NewAuthService(memberRepo, cfg.AllowedEmailDomain)
	memberService := services.NewMemberService(memberRepo, hub)
	logService := services.NewLogService(logRepo, memberRepo, hub)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	memberHandler := handlers.NewMemberHandler(memberService)
	logHandler := handlers.NewLogHandler(logService)
	navHandler := handlers.NewNavigationHandler(memberService, logService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	eventsHandler := handlers.NewEventsHandler(hub)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "1on1 Supporter API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Everything below needs an authenticated, provisioned member
		protected := api.Group("")
		protected.Use(middleware.RequireAuth(), middleware.RequireProvisioned(authService))
		{
			members := protected.Group("/members")
			{
				members.GET("", memberHandler.ListMembers)
				members.GET("/directory", memberHandler.ListDirectory)
				members.GET("/:id", memberHandler.GetMember)
				members.GET("/:id/logs", middleware.RequireMemberLogAccess(memberService), logHandler.ListMemberLogs)
				members.POST("", memberHandler.CreateMember)
				members.PATCH("/:id", memberHandler.UpdateMember)
				members.DELETE("/:id", memberHandler.DeleteMember)
			}

			logs := protected.Group("/logs")
			{
				logs.GET("", logHandler.ListLogs)
				logs.GET("/:id", logHandler.GetLog)
				logs.POST("", logHandler.CreateLog)
				logs.PATCH("/:id", logHandler.UpdateLog)
				// No DELETE: logs are permanent
			}

			protected.GET("/dashboard", logHandler.GetDashboard)

			nav := protected.Group("/navigation")
			{
				nav.GET("", navHandler.GetState)
				nav.POST("/navigate", navHandler.Navigate)
				nav.POST("/select-member", navHandler.SelectMember)
				nav.POST("/select-member-profile", navHandler.SelectMemberForProfile)
				nav.POST("/create-log", navHandler.CreateLog)
				nav.POST("/select-log", navHandler.SelectLog)
				nav.POST("/save-log", navHandler.SaveLog)
				nav.POST("/back", navHandler.Back)
				nav.POST("/scope", navHandler.SetScope)
			}

			summary := protected.Group("/summary")
			{
				summary.POST("", summaryHandler.Summarize)
				summary.POST("/transcript", summaryHandler.SummarizeTranscript)
			}

			protected.GET("/events", eventsHandler.Stream)
		}
	}

	// Start server
	slog.Info("server starting", "addr", ":8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
