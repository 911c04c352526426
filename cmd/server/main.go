package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"

	"github.com/quantum-box/urushiri/internal/auth"
	"github.com/quantum-box/urushiri/internal/config"
	"github.com/quantum-box/urushiri/internal/database"
	"github.com/quantum-box/urushiri/internal/dify"
	"github.com/quantum-box/urushiri/internal/handlers"
	"github.com/quantum-box/urushiri/internal/insight"
	"github.com/quantum-box/urushiri/internal/notifier"
	"github.com/quantum-box/urushiri/internal/storage"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Image storage
	var store *storage.ImageStore
	if cfg.MinioEndpoint != "" {
		var err error
		store, err = storage.NewImageStore(cfg)
		if err != nil {
			log.Printf("Image storage not initialized: %v", err)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := store.EnsureBucket(ctx); err != nil {
				log.Printf("Failed to ensure image bucket: %v", err)
			}
			cancel()
		}
	}

	// Discord notifier
	var registrationNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			registrationNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	// AI client
	difyClient := dify.NewClient(cfg.DifyAPIBaseURL, cfg.DifyAPIKey, time.Duration(cfg.DifyTimeoutSeconds)*time.Second)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	eventHandler := handlers.NewEventHandler(db, store, authHandler)
	registrationHandler := handlers.NewRegistrationHandler(db, registrationNotifier, authHandler)
	participantHandler := handlers.NewParticipantHandler(db, authHandler)
	insightHandler := handlers.NewInsightHandler(db, insight.NewSummarizer(difyClient), authHandler)
	aiHandler := handlers.NewAIHandler(difyClient)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, eventHandler, registrationHandler, participantHandler, insightHandler, aiHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
