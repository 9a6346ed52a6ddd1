package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/JuggernautLabs/ContractStream/internal/agent"
	"github.com/JuggernautLabs/ContractStream/internal/config"
	"github.com/JuggernautLabs/ContractStream/internal/database"
	"github.com/JuggernautLabs/ContractStream/internal/handlers"
	"github.com/JuggernautLabs/ContractStream/internal/services"
	"github.com/JuggernautLabs/ContractStream/internal/session"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment directly")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Bad configuration: ", err)
	}

	// 2. Database Connection
	db := database.Connect(cfg.DatabaseDSN)

	// 3. Initialize Core Services
	userService := services.NewUserService(db)
	jobService := services.NewJobService(db)
	proposalService := services.NewProposalService(db)
	resumeService := services.NewResumeService(db)
	contextService := services.NewSearchContextService(db)

	// 4. Session Store
	sessions := session.NewStore(cfg.SessionTTL)
	sessions.StartSweeper(cfg.SessionSweep)
	defer sessions.StopSweeper()

	// 5. Agent Client
	agentClient := agent.NewClient(cfg.AgentURL, cfg.AgentTimeout)
	log.Printf("✅ Agent client pointed at %s", cfg.AgentURL)

	// 6. Initialize Handlers
	authHandler := handlers.NewAuthHandler(userService, sessions)
	jobHandler := handlers.NewJobHandler(jobService, proposalService, agentClient, sessions)
	contextHandler := handlers.NewContextHandler(contextService, resumeService, sessions)
	resumeHandler := handlers.NewResumeHandler(resumeService, sessions, handlers.PlainTextExtractor{}, cfg.MaxResumeSize)

	// 7. Setup Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowCredentials = false
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", handlers.SessionHeader}
	corsConfig.ExposeHeaders = []string{handlers.SessionHeader}
	r.Use(cors.New(corsConfig))

	// 8. Define Routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		// Auth Routes
		api.POST("/signup", authHandler.Signup)
		api.POST("/login", authHandler.Login)
		api.GET("/check_login", authHandler.CheckLogin)
		api.POST("/logout", authHandler.Logout)

		// Job Routes
		api.POST("/jobs", jobHandler.CreateJob)
		api.GET("/pending_jobs", jobHandler.PendingJobs)
		api.GET("/next_pending_job", jobHandler.NextPendingJob)
		api.POST("/accept_job", jobHandler.AcceptJob)
		api.POST("/reject_job", jobHandler.RejectJob)
		api.GET("/accepted_jobs", jobHandler.AcceptedJobs)
		api.GET("/denied_jobs", jobHandler.DeniedJobs)

		// Agent Routes
		api.POST("/scrape_for_user", jobHandler.ScrapeForUser)
		api.GET("/generate_proposal", jobHandler.GenerateProposal)
		api.POST("/proposals", jobHandler.SubmitProposal)

		// Search Context Routes
		api.GET("/search_context", contextHandler.ListContexts)
		api.POST("/search_context", contextHandler.AddContext)
		api.DELETE("/search_context", contextHandler.DeleteContext)

		// Resume Routes
		api.POST("/upload_resume", resumeHandler.UploadResume)
	}

	log.Printf("🚀 Server starting on %s...", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
