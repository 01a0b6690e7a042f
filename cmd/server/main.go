package main

import (
	"log"
	"os"
	"time"

	"go-drug-pricing/internal/database"
	"go-drug-pricing/internal/handlers"
	"go-drug-pricing/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()
	r := gin.Default()

	// Allow the Vite dev frontend during development
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)

	// --- FEATURE FLAG: Admin Registration ---
	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.RequireAPIKey())
	{
		// The action-based store contract the frontend speaks
		api.GET("/store", handlers.StoreQuery)
		api.POST("/store", handlers.StoreMutate)

		// Live ladder preview over the selected working set
		api.POST("/pricing/preview", handlers.PreviewPricing)

		// Exports of the saved summary
		api.GET("/export/xlsx", handlers.ExportXlsx)
		api.GET("/export/pdf", handlers.ExportPdf)

		// STAFF ONLY (JWT on top of the API key)
		staff := api.Group("/")
		staff.Use(middleware.AuthMiddleware())
		{
			// AI assistant is restricted to Admin
			admin := staff.Group("/")
			admin.Use(middleware.RequireRole("admin"))
			{
				admin.POST("/ask", handlers.AskAI)
			}
		}
	}

	// --- DEPLOYMENT: Serve the built frontend ---
	r.Static("/assets", "./web/assets")

	// SPA Catch-All: refreshing on a client route still serves index.html
	r.NoRoute(func(c *gin.Context) {
		c.File("./web/index.html")
	})

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	log.Println("🚀 Server starting on " + baseURL)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
