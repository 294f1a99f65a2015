package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/toriiauth/torii/internal/api"
	"github.com/toriiauth/torii/internal/auth"
	"github.com/toriiauth/torii/internal/authstate"
	"github.com/toriiauth/torii/internal/config"
	"github.com/toriiauth/torii/internal/post"
	"github.com/toriiauth/torii/internal/session"
	"github.com/toriiauth/torii/internal/store"
	"github.com/toriiauth/torii/internal/user"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (default: environment variables only)")
	flag.Parse()

	// Load .env.localdev file if it exists (for local development)
	// Silently ignore if file doesn't exist (production uses real env vars)
	_ = godotenv.Load(".env.localdev")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	firestoreClient, err := store.NewFirestoreClient(ctx, store.FirestoreConfig{
		ProjectID:   cfg.Store.ProjectID,
		Database:    cfg.Store.Database,
		Credentials: cfg.Store.Credentials,
	})
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()
	log.Printf("Firestore client ready (project: %s, database: %s)",
		firestoreClient.ProjectID(), firestoreClient.Database())

	log.Printf("Initializing Firebase Auth for project: %s", cfg.Auth.ProjectID)
	firebaseAuth, err := auth.NewFirebaseAuth(ctx, auth.FirebaseAuthConfig{
		ProjectID:       cfg.Auth.ProjectID,
		CredentialsPath: cfg.Auth.Credentials,
	})
	if err != nil {
		log.Fatalf("Failed to create Firebase Auth client: %v", err)
	}

	broker := authstate.NewBroker()
	defer broker.Close()

	handler := api.NewRouter(api.RouterConfig{
		Auth:        firebaseAuth,
		Verifier:    firebaseAuth,
		UserRepo:    user.NewFirestoreRepository(firestoreClient.Client()),
		PostRepo:    post.NewFirestoreRepository(firestoreClient.Client()),
		Broker:      broker,
		CookieOpts:  session.Options{Secure: cfg.Production()},
		SessionTTL:  cfg.Auth.SessionTTL.Std(),
		FreshWindow: cfg.Auth.FreshWindow.Std(),
		CORSOrigins: cfg.API.CORSOrigins,
		AllowLocal:  !cfg.Production(),
	})

	server := api.NewServer(cfg.API.Addr, handler)
	go func() {
		log.Printf("torii listening on %s (%s)", cfg.API.Addr, cfg.API.Environment)
		if err := server.Start(); err != nil {
			log.Printf("API server error: %v", err)
			cancel()
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server shutdown error: %v", err)
	}

	log.Println("Goodbye!")
}
