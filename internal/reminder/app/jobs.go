/**
 * @description
 * Job implementation for the reminder-service. A run reads every user, keeps the ones with
 * an email address and at least one active goal, and sends each of them a reminder.
 *
 * @dependencies
 * - golang.org/x/sync/errgroup: joins the concurrent sends.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/domain"
	"github.com/levishimwe/savesmart-mobile-app-Group4/pkg/mailer"
)

var (
	ErrNoEmail       = errors.New("user has no email address")
	ErrNoActiveGoals = errors.New("user has no active goals")
)

// Repository defines the document store reads needed by the jobs.
type Repository interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, userID string) (domain.User, error)
	ListActiveGoals(ctx context.Context, userID string) ([]domain.Goal, error)
}

// Mailer defines the outbound mail transport.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Jobs contains the reminder logic.
type Jobs struct {
	repo   Repository
	mailer Mailer
	logger *slog.Logger
}

// NewJobs creates a new Jobs runner.
func NewJobs(repo Repository, mailer Mailer, logger *slog.Logger) *Jobs {
	return &Jobs{
		repo:   repo,
		mailer: mailer,
		logger: logger,
	}
}

// Run executes one reminder pass. Only a failure to list users is returned; per-user
// problems are logged and counted in the result.
func (j *Jobs) Run(ctx context.Context) (domain.RunResult, error) {
	var result domain.RunResult

	users, err := j.repo.ListUsers(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list users: %w", err)
	}
	result.Users = len(users)
	if len(users) == 0 {
		j.logger.Info("no users found")
		return result, nil
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)

	for _, user := range users {
		msg, err := j.reminderFor(ctx, user)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoEmail):
				j.logger.Info("skipping user without email", "user_id", user.ID)
			case errors.Is(err, ErrNoActiveGoals):
				j.logger.Info("skipping user without active goals", "user_id", user.ID)
			default:
				j.logger.Error("failed to prepare reminder", "user_id", user.ID, "error", err)
			}
			result.Skipped++
			continue
		}

		userID := user.ID
		g.Go(func() error {
			if err := j.mailer.Send(ctx, msg); err != nil {
				j.logger.Error("failed to send reminder", "user_id", userID, "error", err)
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return nil
			}
			j.logger.Info("reminder sent", "user_id", userID)
			mu.Lock()
			result.Sent++
			mu.Unlock()
			return nil
		})
	}

	// Tasks never return an error; Wait only joins them.
	_ = g.Wait()

	return result, nil
}

// PrepareReminder loads a single user and composes the reminder they would receive.
func (j *Jobs) PrepareReminder(ctx context.Context, userID string) (mailer.Message, error) {
	user, err := j.repo.GetUser(ctx, userID)
	if err != nil {
		return mailer.Message{}, err
	}
	return j.reminderFor(ctx, user)
}

// Deliver sends a previously composed reminder.
func (j *Jobs) Deliver(ctx context.Context, msg mailer.Message) error {
	return j.mailer.Send(ctx, msg)
}

func (j *Jobs) reminderFor(ctx context.Context, user domain.User) (mailer.Message, error) {
	if user.Email == "" {
		return mailer.Message{}, ErrNoEmail
	}

	goals, err := j.repo.ListActiveGoals(ctx, user.ID)
	if err != nil {
		return mailer.Message{}, fmt.Errorf("failed to list active goals: %w", err)
	}
	if len(goals) == 0 {
		return mailer.Message{}, ErrNoActiveGoals
	}

	msg, err := ComposeReminder(user, goals)
	if err != nil {
		return mailer.Message{}, fmt.Errorf("failed to compose reminder: %w", err)
	}
	return msg, nil
}

// SendWeeklyReminders is the scheduled variant of Run.
func (j *Jobs) SendWeeklyReminders() {
	j.logger.Info("starting weekly reminder job")
	ctx := context.Background()

	result, err := j.Run(ctx)
	if err != nil {
		j.logger.Error("weekly reminder job failed", "error", err)
		return
	}

	j.logger.Info("weekly reminder job finished",
		"users", result.Users,
		"sent", result.Sent,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
}
