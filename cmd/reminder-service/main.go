/**
 * @description
 * This is the main entry point for the reminder-service. It schedules the weekly savings
 * reminder job and exposes a manual HTTP trigger for it.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files during local development.
 * - internal/reminder/api, internal/reminder/app, internal/reminder/config,
 *   internal/reminder/store, pkg/mailer.
 */
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/api"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/app"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/config"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/store"
	"github.com/levishimwe/savesmart-mobile-app-Group4/pkg/mailer"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	fsClient, err := store.NewFirestoreClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Error("unable to connect to firestore", "error", err)
		os.Exit(1)
	}
	defer fsClient.Close()
	logger.Info("firestore client initialized", "project_id", cfg.FirebaseProjectID)

	repo := store.NewFirestoreRepository(fsClient, logger)
	sender := mailer.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridBaseURL, cfg.MailFromName, cfg.MailFromAddress)
	logger.Info("mailer configured", "from", sender.From())

	jobs := app.NewJobs(repo, sender, logger)
	scheduler := app.NewScheduler(jobs, logger, cfg.ReminderSchedule, loc, cfg.ReminderRunOnStartup)
	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	logger.Info("scheduler started", "next_run", scheduler.Next())

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: api.ReminderRoutes(api.NewReminderHandlers(jobs, logger)),
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down reminder service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	// Wait for a running job to finish before closing the Firestore client.
	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn("reminder job still running at shutdown")
	}

	logger.Info("reminder service stopped")
}
