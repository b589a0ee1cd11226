package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"resume-analyzer/internal/config"
	"resume-analyzer/internal/handlers"
	"resume-analyzer/internal/repositories"
	"resume-analyzer/internal/services"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	logger.Info("database connected")

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	jdRepo := repositories.NewJobDescriptionRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)

	// Services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Fatal("failed to create upload directory", zap.Error(err))
	}

	authService := services.NewAuthService(userRepo, tokenRepo, cfg.Auth.TokenTTL)
	pdfParser := services.NewPDFParserService()

	geminiService, err := services.NewGeminiService(cfg.Gemini, logger.Named("gemini"))
	if err != nil {
		logger.Fatal("failed to initialize gemini client", zap.Error(err))
	}

	vectorStore, err := services.NewQdrantStore(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		logger.Fatal("failed to initialize qdrant client", zap.Error(err))
	}

	ctx := context.Background()
	if err := vectorStore.InitCollection(ctx); err != nil {
		logger.Fatal("failed to initialize qdrant collection", zap.Error(err))
	}

	indexerWorker := services.NewIndexer(
		geminiService,
		vectorStore,
		cfg.Indexer.Concurrency,
		cfg.Indexer.QueueSize,
		logger.Named("indexer"),
	)
	indexerWorker.Start(ctx)

	normalizer, err := services.NewResponseNormalizer()
	if err != nil {
		logger.Fatal("failed to initialize response normalizer", zap.Error(err))
	}

	analyzerService := services.NewAnalyzerService(
		resumeRepo,
		jdRepo,
		analysisRepo,
		pdfParser,
		geminiService,
		normalizer,
		indexerWorker,
		logger.Named("analyzer"),
	)

	historyService := services.NewHistoryService(analysisRepo, geminiService, vectorStore)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	uploadHandler := handlers.NewUploadHandler(resumeRepo, storageService, cfg.Storage.MaxFileSize)
	analyzeHandler := handlers.NewAnalyzeHandler(analyzerService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	app := fiber.New(fiber.Config{
		AppName:      "AI Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger(logger.Named("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/register", authHandler.HandleRegister)
	api.Post("/login", authHandler.HandleLogin)

	protected := api.Group("", handlers.RequireAuth(authService))
	protected.Post("/resumes", uploadHandler.HandleUpload)
	protected.Post("/analyze", analyzeHandler.HandleAnalyze)
	protected.Get("/history", historyHandler.HandleList)
	protected.Get("/history/search", historyHandler.HandleSearch)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("shutting down server")
		indexerWorker.Stop()
		if err := app.Shutdown(); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)))
		return err
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
