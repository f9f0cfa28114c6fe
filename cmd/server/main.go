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

	"flashpro-backend/internal/config"
	"flashpro-backend/internal/handlers"
	"flashpro-backend/internal/router"
	"flashpro-backend/internal/services"
	"flashpro-backend/internal/storage"
	"flashpro-backend/internal/store"
)

func main() {
	log.Println("🚀 Starting FlashPro Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Open Durable Storage ────
	fileStorage, err := storage.NewFileStorage(cfg.DataPath)
	if err != nil {
		log.Fatalf("✗ Storage initialization failed: %v", err)
	}
	log.Printf("✓ Storage ready at %s", cfg.DataPath)

	// ──── Step 3: Restore the Flashcard Store ────
	flashcardStore := store.Open(fileStorage)
	log.Printf("✓ Flashcard store restored (%d sets)", flashcardStore.Len())

	// ──── Step 4: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	if geminiService.Configured() {
		log.Println("✓ Gemini client initialized")
	} else {
		log.Println("! GEMINI_API_KEY not set, flashcard generation is disabled")
	}

	// ──── Initialize Services & Handlers ────
	fileExtractService := services.NewFileExtractService()
	setHandler := handlers.NewFlashcardSetHandler(flashcardStore)
	generateHandler := handlers.NewGenerateHandler(flashcardStore, geminiService, fileExtractService)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(setHandler, generateHandler, cfg.GenerateRateLimit, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
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

	log.Printf("✓ FlashPro Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
