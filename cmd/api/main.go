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
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"jobpilot/api/internal/config"
	"jobpilot/api/internal/handlers"
	"jobpilot/api/internal/logger"
	"jobpilot/api/internal/middleware"
	"jobpilot/api/internal/repositories"
	"jobpilot/api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env != "development", cfg.Server.Env == "development")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	zlog.Info("database connected and migrated")

	// Initialize repositories
	usageRepo := repositories.NewUsageRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	letterRepo := repositories.NewCoverLetterRepository(db)
	tokenRepo := repositories.NewMailTokenRepository(db)

	// Identity provider client
	identity, err := middleware.NewIdentityClient(cfg.Auth)
	if err != nil {
		zlog.Fatal("failed to initialize identity client", zap.Error(err))
	}

	// Model gateway
	ctx := context.Background()
	gateway, err := services.NewGeminiGateway(ctx, cfg.Gemini, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize gemini gateway", zap.Error(err))
	}
	zlog.Info("gemini gateway initialized", zap.String("model", cfg.Gemini.Model))

	// Research note store
	noteStore, err := services.NewQdrantNoteStore(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		zlog.Fatal("failed to initialize qdrant", zap.Error(err))
	}
	if err := noteStore.InitCollection(ctx); err != nil {
		zlog.Fatal("failed to initialize qdrant collection", zap.Error(err))
	}
	zlog.Info("qdrant note store initialized", zap.String("collection", cfg.Qdrant.Collection))

	// Pipeline services
	validator := services.NewValidator(zlog)
	composer := services.NewComposer()
	recorder := services.NewRecorder(usageRepo, auditRepo, zlog)

	assessor := services.NewAssessorService(validator, composer, gateway, recorder, zlog)
	optimizer := services.NewOptimizerService(validator, composer, gateway, recorder, zlog)
	research := services.NewResearchService(composer, gateway, noteStore, recorder, zlog)

	mailer, err := services.NewMailerService(cfg.Gmail, tokenRepo, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize mailer", zap.Error(err))
	}

	limiter := services.NewInflightLimiter(cfg.Limits.InflightPerUser)

	// Handlers
	assessHandler := handlers.NewAssessHandler(assessor, limiter)
	optimizeHandler := handlers.NewOptimizeHandler(optimizer, limiter)
	researchHandler := handlers.NewResearchHandler(research, limiter)
	letterHandler := handlers.NewCoverLetterHandler(letterRepo)
	mailHandler := handlers.NewMailHandler(mailer)
	usageHandler := handlers.NewUsageHandler(usageRepo, auditRepo)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "JobPilot API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
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

	// Everything below requires a resolvable bearer token.
	authed := api.Group("", middleware.RequireAuth(identity, zlog))

	authed.Post("/assess", assessHandler.HandleAssess)
	authed.Post("/optimize", optimizeHandler.HandleOptimize)
	authed.Post("/research", researchHandler.HandleResearch)

	authed.Post("/cover-letters", letterHandler.HandleSave)
	authed.Get("/cover-letters", letterHandler.HandleList)
	authed.Delete("/cover-letters/:id", letterHandler.HandleDelete)

	authed.Get("/mail/connect", mailHandler.HandleConnect)
	authed.Get("/mail/oauth/callback", mailHandler.HandleOAuthCallback)
	authed.Post("/mail/send", mailHandler.HandleSend)
	authed.Get("/mail/status", mailHandler.HandleStatus)
	authed.Delete("/mail/connection", mailHandler.HandleDisconnect)

	authed.Get("/usage", usageHandler.HandleSummary)
	authed.Get("/audit/:signature", usageHandler.HandleAuditTrail)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
