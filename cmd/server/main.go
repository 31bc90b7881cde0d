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

	"maar-backend/internal/config"
	"maar-backend/internal/handlers"
	"maar-backend/internal/router"
	"maar-backend/internal/services"
	"maar-backend/internal/web"
)

func main() {
	log.Println("🚀 Starting MAAR AI...")

	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✗ Configuration error: %v", err)
	}
	log.Printf("✓ Environment variables loaded (%s)", cfg)

	// ──── Step 2: Initialize OpenAI Client ────
	chatService := services.NewOpenAIService(
		cfg.OpenAIAPIKey,
		cfg.OpenAIBaseURL,
		cfg.OpenAIModel,
		cfg.UpstreamTimeout,
	)
	log.Printf("✓ OpenAI client initialized (model %s)", cfg.OpenAIModel)

	// ──── Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(chatService)
	frontendHandler := handlers.NewFrontendHandler(web.IndexHTML())

	// ──── Step 3: Start HTTP Server ────
	r := router.New(chatHandler, frontendHandler, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
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
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("✗ Graceful shutdown failed: %v", err)
		}
	}()

	log.Printf("✓ MAAR AI ready on http://localhost:%s", cfg.Port)
	log.Printf("  Chat: POST http://localhost:%s/chat", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
