package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreybb/authbase/api"
	"github.com/coreybb/authbase/auth"
	"github.com/coreybb/authbase/config"
	"github.com/coreybb/authbase/datastore"
	"github.com/coreybb/authbase/googleauth"
	"github.com/coreybb/authbase/mailer"
	rh "github.com/coreybb/authbase/route-handlers"
	"github.com/coreybb/authbase/session"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

const (
	dbPingTimeout     = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 25
	dbConnMaxLifetime = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := setupDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()

	userRepo := datastore.NewUserRepository(db)

	emailProvider := mailer.NewResendProvider(cfg.ResendAPIKey, cfg.ResendFromEmail)
	authMailer := mailer.NewMailer(emailProvider, cfg.AppURL)
	googleVerifier := googleauth.NewTokenVerifier(cfg.GoogleClientID)

	authService := auth.NewService(userRepo, authMailer, googleVerifier)
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)

	authHandler := rh.NewAuthHandler(authService, userRepo, sessions)

	apiRouter := api.SetupRoutes(authHandler)

	mainRouter := chi.NewRouter()
	mainRouter.Mount("/", apiRouter)

	startServer(cfg.Port, mainRouter)
}

func setupDatabase(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection successful")
	return db, nil
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
