package main

import (
	"log"

	"github.com/Levi-LMN/Trivia/internal/config"
	"github.com/Levi-LMN/Trivia/internal/database"
	"github.com/Levi-LMN/Trivia/internal/handlers"
	"github.com/Levi-LMN/Trivia/internal/middleware"
	"github.com/Levi-LMN/Trivia/internal/services"
	"github.com/Levi-LMN/Trivia/internal/ws"

	_ "github.com/Levi-LMN/Trivia/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Trivia API
// @version         1.0
// @description     Timed multi-section trivia sessions with phone-based participant identity
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.AdminPassphrase)
	attemptService := services.NewAttemptService(db)
	scoringService := services.NewScoringService(db)
	cheatService := services.NewCheatService(db)
	adminService := services.NewAdminService(db)

	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(attemptService, scoringService)
	attemptHandler := handlers.NewAttemptHandler(attemptService, hub)
	cheatHandler := handlers.NewCheatHandler(cheatService, hub)
	adminHandler := handlers.NewAdminHandler(authService, adminService, scoringService)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/attempt/:id", wsHandler.HandleAttemptWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/identify", authHandler.Identify)
			auth.POST("/register", authHandler.Register)
		}

		quizzes := api.Group("/quizzes")
		quizzes.Use(middleware.ParticipantAuth(authService))
		{
			quizzes.GET("", quizHandler.ListSessions)
			quizzes.GET("/:id/attempt", attemptHandler.Enter)
			quizzes.POST("/:id/answer", attemptHandler.SubmitAnswer)
			quizzes.POST("/:id/finish", attemptHandler.Finish)
			quizzes.GET("/:id/status", attemptHandler.Status)
			quizzes.POST("/:id/cheat", cheatHandler.Flag)
			quizzes.GET("/:id/result", quizHandler.SessionResult)
		}

		results := api.Group("")
		results.Use(middleware.ParticipantAuth(authService))
		{
			results.GET("/results", quizHandler.MyResults)
			results.GET("/leaderboard", quizHandler.Leaderboard)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)

			protected := admin.Group("")
			protected.Use(middleware.AdminAuth(authService))
			{
				protected.GET("/stats", adminHandler.Stats)

				protected.GET("/quizzes", adminHandler.ListSessions)
				protected.POST("/quizzes", adminHandler.CreateSession)
				protected.PUT("/quizzes/:id", adminHandler.UpdateSession)
				protected.DELETE("/quizzes/:id", adminHandler.DeleteSession)
				protected.POST("/quizzes/:id/toggle-active", adminHandler.ToggleActive)
				protected.POST("/quizzes/:id/toggle-randomize", adminHandler.ToggleRandomize)

				protected.GET("/quizzes/:id/sections", adminHandler.ListSections)
				protected.POST("/quizzes/:id/sections", adminHandler.CreateSection)
				protected.PUT("/sections/:id", adminHandler.UpdateSection)
				protected.DELETE("/sections/:id", adminHandler.DeleteSection)

				protected.GET("/sections/:id/questions", adminHandler.ListQuestions)
				protected.POST("/sections/:id/questions", adminHandler.CreateQuestion)
				protected.PUT("/questions/:id", adminHandler.UpdateQuestion)
				protected.DELETE("/questions/:id", adminHandler.DeleteQuestion)

				protected.GET("/participants", adminHandler.Participants)
				protected.GET("/participants/:id", adminHandler.ParticipantDetail)
			}
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
