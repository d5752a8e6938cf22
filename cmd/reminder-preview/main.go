/**
 * @description
 * Operator script that renders the weekly reminder a single user would receive and,
 * after confirmation, sends it. Useful for checking templates and SendGrid setup against
 * a real Firestore project without running the whole job.
 *
 * Usage:
 *   go run ./cmd/reminder-preview <user-id>
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files during local development.
 * - Environment variables: FIREBASE_PROJECT_ID, SENDGRID_API_KEY (see reminder-service).
 */
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/app"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/config"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/domain"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/store"
	"github.com/levishimwe/savesmart-mobile-app-Group4/pkg/mailer"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: go run ./cmd/reminder-preview <user-id>")
		os.Exit(1)
	}
	userID := os.Args[1]

	_ = godotenv.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fsClient, err := store.NewFirestoreClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to Firestore: %v\n", err)
		os.Exit(1)
	}
	defer fsClient.Close()

	sender := mailer.NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridBaseURL, cfg.MailFromName, cfg.MailFromAddress)
	jobs := app.NewJobs(store.NewFirestoreRepository(fsClient, logger), sender, logger)

	if err := run(ctx, jobs, sender.From(), userID, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type previewer interface {
	PrepareReminder(ctx context.Context, userID string) (mailer.Message, error)
	Deliver(ctx context.Context, msg mailer.Message) error
}

func run(ctx context.Context, jobs previewer, from, userID string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Preparing reminder for user: %s\n", userID)
	msg, err := jobs.PrepareReminder(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("user %s does not exist", userID)
	case errors.Is(err, app.ErrNoEmail), errors.Is(err, app.ErrNoActiveGoals):
		fmt.Fprintf(out, "No reminder would be sent: %v\n", err)
		return nil
	case err != nil:
		return fmt.Errorf("failed to prepare reminder: %w", err)
	}

	fmt.Fprintf(out, "From: %s\nTo: %s\nSubject: %s\n\n%s\n", from, msg.To, msg.Subject, msg.Text)

	fmt.Fprintf(out, "\nSend this reminder now? (yes/no): ")
	answer, _ := bufio.NewReader(in).ReadString('\n')
	if strings.TrimSpace(answer) != "yes" {
		fmt.Fprintln(out, "Sending cancelled.")
		return nil
	}

	if err := jobs.Deliver(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	fmt.Fprintf(out, "Reminder sent to %s\n", msg.To)
	return nil
}
