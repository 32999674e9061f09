package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizforge-backend/internal/cache"
	"quizforge-backend/internal/config"
	"quizforge-backend/internal/database"
	"quizforge-backend/internal/handlers"
	"quizforge-backend/internal/repository"
	"quizforge-backend/internal/router"
	"quizforge-backend/internal/services"
	"quizforge-backend/migrations"
)

func main() {
	log.Println("🚀 Starting QuizForge Backend...")
	ctx := context.Background()

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Run Database Migrations ────
	if err := database.RunMigrations(ctx, pool, migrations.FS); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 4: Initialize Redis Corpus Store (optional) ────
	var corpus *cache.CorpusCache
	if cfg.RedisEnabled() {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		corpus = cache.NewCorpusCache(redisClient)
		log.Println("✓ Redis connected, question corpus enabled")
	} else {
		log.Println("• REDIS_URL not set, question corpus disabled")
	}

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(cfg)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)

	// ──── Initialize Services ────
	generator := services.NewQuizGenerator(geminiService, cfg.MaxCompletionBytes, cfg.MaxDocumentChars)
	classifier := services.NewDuplicateClassifier(geminiService, services.AllowOnUncertainty, cfg.MaxCompletionBytes)
	assembler := services.NewAssembler(generator, classifier, cfg.DedupOverprovision)
	feedbackService := services.NewFeedbackService(geminiService, cfg.FeedbackPacing)
	fileExtractService := services.NewFileExtractService()
	historyRepo := repository.NewHistoryRepo(pool)

	// ──── Initialize Handlers ────
	var corpusStore handlers.CorpusStore
	if corpus != nil {
		corpusStore = corpus
	}
	quizHandler := handlers.NewQuizHandler(generator, assembler, fileExtractService, corpusStore, cfg.MaxUploadBytes)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, historyRepo)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		quizHandler,
		feedbackHandler,
		cfg.FrontendURL,
	)

	// Generation plus deduplication can take several model round trips.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ QuizForge Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
