package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/timatix/autoworks-backend/internal/database"
	"github.com/timatix/autoworks-backend/internal/handlers"
	"github.com/timatix/autoworks-backend/internal/middleware"
	"github.com/timatix/autoworks-backend/internal/scheduler"
	"github.com/timatix/autoworks-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using environment variables")
	}

	log.SetFormatter(&log.JSONFormatter{})
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Redis backs the booking event stream; the API still works without it
	if err := services.InitRedis(); err != nil {
		log.Warnf("Redis initialization warning: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// WebSocket hub and notification fan-out
	hub := services.NewHub()
	go hub.Run()
	notifier := services.NewNotifier(hub)

	gateway := services.NewGatewayFromEnv()

	requestSvc := services.NewRequestService(db, notifier)
	quoteSvc := services.NewQuoteService(db, notifier)
	invoiceSvc := services.NewInvoiceService(db, notifier)
	paymentSvc := services.NewPaymentService(db, gateway, notifier)
	slotSvc := services.NewSlotService(db)
	catalogSvc := services.NewCatalogService(db)
	progressSvc := services.NewProgressService(db, notifier)
	metricsSvc := services.NewMetricsService(db)

	sched := scheduler.New(db, quoteSvc, invoiceSvc, paymentSvc, metricsSvc, notifier)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	r.Static("/uploads", "./uploads")

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetCurrentUser(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.GET("/mechanics", handlers.ListMechanics(db))
			}

			vehicles := protected.Group("/vehicles")
			{
				vehicles.POST("", handlers.CreateVehicle(db))
				vehicles.GET("", handlers.ListMyVehicles(db))
				vehicles.GET("/:id", handlers.GetVehicle(db))
				vehicles.PUT("/:id", handlers.UpdateVehicle(db))
				vehicles.DELETE("/:id", handlers.DeleteVehicle(db))
			}

			catalog := protected.Group("/services")
			{
				catalog.GET("", handlers.ListCatalog(catalogSvc))
				catalog.GET("/:id", handlers.GetCatalogEntry(catalogSvc))
				catalog.POST("", middleware.RequireAdmin(), handlers.CreateCatalogEntry(catalogSvc))
				catalog.PUT("/:id", middleware.RequireAdmin(), handlers.UpdateCatalogEntry(catalogSvc))
				catalog.PATCH("/:id/deactivate", middleware.RequireAdmin(), handlers.DeactivateCatalogEntry(catalogSvc))
				catalog.DELETE("/:id", middleware.RequireAdmin(), handlers.DeleteCatalogEntry(catalogSvc))
			}

			requests := protected.Group("/requests")
			{
				requests.POST("", handlers.CreateRequest(requestSvc))
				requests.GET("", handlers.ListMyRequests(requestSvc))
				requests.GET("/assigned", middleware.RequireMechanic(), handlers.ListAssignedRequests(requestSvc))
				requests.GET("/by-status", middleware.RequireMechanic(), handlers.ListRequestsByStatus(requestSvc))
				requests.GET("/:id", handlers.GetRequest(requestSvc))
				requests.PUT("/:id", handlers.UpdateRequest(requestSvc))
				requests.DELETE("/:id", handlers.DeleteRequest(requestSvc))
				requests.POST("/:id/photo", handlers.UploadRequestPhoto(requestSvc))
				requests.POST("/:id/assign", middleware.RequireMechanic(), handlers.AssignMechanic(requestSvc))
				requests.PATCH("/:id/status", middleware.RequireMechanic(), handlers.UpdateRequestStatus(requestSvc))
				requests.GET("/:id/quote", handlers.GetQuoteForRequest(quoteSvc))
				requests.GET("/:id/invoice", handlers.GetInvoiceForRequest(invoiceSvc))
				requests.POST("/:id/progress", middleware.RequireMechanic(), handlers.RecordProgress(progressSvc))
				requests.GET("/:id/progress", handlers.GetProgressHistory(progressSvc))
			}

			quotes := protected.Group("/quotes")
			{
				quotes.POST("", middleware.RequireMechanic(), handlers.CreateQuote(quoteSvc))
				quotes.GET("/mine", middleware.RequireMechanic(), handlers.ListMyQuotes(quoteSvc))
				quotes.GET("/by-status", middleware.RequireMechanic(), handlers.ListQuotesByStatus(quoteSvc))
				quotes.GET("/:id", handlers.GetQuote(quoteSvc))
				quotes.PUT("/:id", middleware.RequireMechanic(), handlers.UpdateQuote(quoteSvc))
				quotes.DELETE("/:id", middleware.RequireMechanic(), handlers.DeleteQuote(quoteSvc))
				quotes.POST("/:id/approve", handlers.ApproveQuote(quoteSvc))
				quotes.POST("/:id/decline", handlers.DeclineQuote(quoteSvc))
			}

			invoices := protected.Group("/invoices")
			{
				invoices.POST("", middleware.RequireMechanic(), handlers.CreateInvoice(invoiceSvc))
				invoices.GET("/by-status", middleware.RequireMechanic(), handlers.ListInvoicesByStatus(invoiceSvc))
				invoices.GET("/overdue", middleware.RequireMechanic(), handlers.ListOverdueInvoices(invoiceSvc))
				invoices.GET("/:id", handlers.GetInvoice(invoiceSvc))
				invoices.POST("/:id/mark-paid", middleware.RequireAdmin(), handlers.MarkInvoicePaid(invoiceSvc))
				invoices.GET("/:id/payments", handlers.ListInvoicePayments(paymentSvc))
			}

			payments := protected.Group("/payments")
			{
				payments.POST("", handlers.ProcessPayment(paymentSvc))
				payments.GET("/pending", middleware.RequireAdmin(), handlers.ListPendingPayments(paymentSvc))
				payments.POST("/:id/refund", middleware.RequireAdmin(), handlers.RefundPayment(paymentSvc))
			}

			slots := protected.Group("/slots")
			{
				slots.GET("", handlers.ListSlots(slotSvc))
				slots.GET("/:id", handlers.GetSlot(slotSvc))
				slots.POST("", middleware.RequireAdmin(), handlers.CreateSlot(slotSvc))
				slots.POST("/generate", middleware.RequireAdmin(), handlers.GenerateSlots(slotSvc))
				slots.POST("/:id/book", handlers.BookSlot(slotSvc))
				slots.POST("/:id/cancel", handlers.CancelSlotBooking(slotSvc))
				slots.DELETE("/:id", middleware.RequireAdmin(), handlers.DeleteSlot(slotSvc))
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/metrics", handlers.GetMetricsSummary(metricsSvc))
				admin.GET("/ws-stats", handlers.WebSocketStats(hub))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
