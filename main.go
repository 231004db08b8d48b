package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/fengin/umani/config"
	"github.com/fengin/umani/handlers"
	"github.com/fengin/umani/logger"
	"github.com/fengin/umani/middleware"
	"github.com/fengin/umani/repositories"
	"github.com/fengin/umani/services"
)

func main() {
	// Load environment variables; .env is optional
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("GIN_MODE"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Initialize database
	db, err := config.InitDB(log)
	if err != nil {
		log.Fatal("database init failed", "error", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	skillRepo := repositories.NewSkillRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	// Initialize services
	llmClient := services.NewLLMClient(log)
	authService := services.NewAuthService(userRepo)
	skillService := services.NewSkillService(skillRepo, profileRepo, llmClient, log)
	articleService := services.NewArticleService(articleRepo, skillRepo, profileRepo, llmClient, log)
	settingsService := services.NewSettingsService(profileRepo, skillRepo, articleRepo, llmClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	skillHandler := handlers.NewSkillHandler(skillService)
	articleHandler := handlers.NewArticleHandler(articleService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)

	// Setup router
	router := gin.Default()
	router.Use(middleware.RequestLogger(log))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile
			protected.GET("/profile", authHandler.GetProfile)

			// Skills and their version chains
			skills := protected.Group("/skills")
			{
				skills.POST("", skillHandler.CreateSkill)
				skills.POST("/from-samples", skillHandler.CreateSkillFromSamples)
				skills.GET("", skillHandler.ListSkills)
				skills.GET("/:id", skillHandler.GetSkill)
				skills.PATCH("/:id", skillHandler.UpdateSkill)
				skills.DELETE("/:id", middleware.RequireRole("writer", "admin"), skillHandler.DeleteSkill)
				skills.POST("/:id/evolve", skillHandler.Evolve)
				skills.GET("/:id/versions", skillHandler.ListVersions)
				skills.GET("/:id/versions/:version", skillHandler.GetVersion)
				skills.GET("/:id/export/markdown", skillHandler.ExportMarkdown)
				skills.GET("/:id/export/json", skillHandler.ExportJSON)
			}

			// Articles and the evolution loop
			articles := protected.Group("/articles")
			{
				articles.POST("/generate", articleHandler.GenerateArticle)
				articles.GET("", articleHandler.ListArticles)
				articles.GET("/:id", articleHandler.GetArticle)
				articles.PUT("/:id", articleHandler.SaveArticle)
				articles.POST("/:id/finalize", articleHandler.FinalizeArticle)
				articles.DELETE("/:id", middleware.RequireRole("writer", "admin"), articleHandler.DeleteArticle)
				articles.POST("/:id/analyze", articleHandler.AnalyzeDiff)
			}

			// Diff engine
			protected.POST("/diff", articleHandler.ComputeDiff)

			// Settings
			settings := protected.Group("/settings")
			{
				settings.GET("/llm", settingsHandler.GetLLMConfig)
				settings.PUT("/llm", settingsHandler.SaveLLMConfig)
				settings.POST("/llm/test", settingsHandler.TestConnection)
			}

			protected.GET("/onboarding", settingsHandler.OnboardingStatus)
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
