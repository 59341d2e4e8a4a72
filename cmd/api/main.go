package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"writeitgreat/proposal-evaluator/internal/config"
	"writeitgreat/proposal-evaluator/internal/handlers"
	"writeitgreat/proposal-evaluator/internal/repositories"
	"writeitgreat/proposal-evaluator/internal/scoring"
	"writeitgreat/proposal-evaluator/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	subRepo := repositories.NewSubmissionRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	extractor := services.NewExtractorService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize rubric store
	rubricStore, err := services.NewRubricStoreService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize rubric store: %v", err)
	}

	if err := rubricStore.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize rubric collection: %v", err)
	}
	log.Println("✅ Rubric store initialized successfully")

	// Initialize notifier
	notifier := services.NewNotifierService(cfg.SMTP, nil)

	// Initialize evaluator
	evaluatorService := services.NewEvaluatorService(
		subRepo,
		geminiService,
		rubricStore,
		notifier,
		cfg.Scoring,
		cfg.Worker.RetryMaxAttempts,
	)
	log.Println("✅ Evaluator service initialized")

	// Initialize worker
	worker := services.NewWorker(
		subRepo,
		evaluatorService,
		cfg.Worker.Concurrency,
		cfg.Worker.EvalTimeout,
	)

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)

	// Initialize handlers
	submitHandler := handlers.NewSubmitHandler(
		subRepo,
		storageService,
		extractor,
		worker,
		cfg.Storage.MaxFileSize,
		cfg.Scoring,
	)
	statusHandler := handlers.NewStatusHandler(subRepo)
	resultHandler := handlers.NewResultHandler(
		subRepo,
		scoring.NewEstimator(cfg.Scoring.AdvanceStrategy, cfg.Scoring.ATierCap),
	)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Write It Great Proposal Evaluator",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/submissions", submitHandler.HandleSubmit)
	api.Get("/submissions/:id/status", statusHandler.HandleGetStatus)
	api.Get("/submissions/:id", resultHandler.HandleGetResult)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Write It Great Proposal Evaluator API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/submissions",
				"GET /api/v1/submissions/:id/status",
				"GET /api/v1/submissions/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
