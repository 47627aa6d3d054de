package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oasis-pandey/chorechamp/internal/database"
	"github.com/oasis-pandey/chorechamp/internal/logging"
	"github.com/oasis-pandey/chorechamp/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("CHORECHAMP_LOG_LEVEL"))

	port := os.Getenv("CHORECHAMP_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("CHORECHAMP_DB_PATH")
	if dbPath == "" {
		dbPath = "chorechamp.db"
	}

	jwtSecret := os.Getenv("CHORECHAMP_JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("CHORECHAMP_JWT_SECRET is required")
		os.Exit(1)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, jwtSecret, logger)

	// Expired rate-limit windows accumulate one entry per client IP; sweep
	// them periodically.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
