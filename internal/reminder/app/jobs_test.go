package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/domain"
	"github.com/levishimwe/savesmart-mobile-app-Group4/pkg/mailer"
)

type jobsRepoStub struct {
	users    []domain.User
	usersErr error
	goals    map[string][]domain.Goal
	goalsErr map[string]error
}

func (s *jobsRepoStub) ListUsers(ctx context.Context) ([]domain.User, error) {
	if s.usersErr != nil {
		return nil, s.usersErr
	}
	return s.users, nil
}

func (s *jobsRepoStub) GetUser(ctx context.Context, userID string) (domain.User, error) {
	for _, u := range s.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *jobsRepoStub) ListActiveGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	if err := s.goalsErr[userID]; err != nil {
		return nil, err
	}
	var active []domain.Goal
	for _, g := range s.goals[userID] {
		if !g.Withdrawn {
			active = append(active, g)
		}
	}
	return active, nil
}

type jobsMailerStub struct {
	mu      sync.Mutex
	sent    []mailer.Message
	failFor map[string]error
}

func (s *jobsMailerStub) Send(ctx context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failFor[msg.To]; err != nil {
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *jobsMailerStub) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, m := range s.sent {
		out = append(out, m.To)
	}
	sort.Strings(out)
	return out
}

func newTestJobs(repo Repository, m Mailer) *Jobs {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewJobs(repo, m, logger)
}

func TestRun_SendsOnlyActiveGoals(t *testing.T) {
	repo := &jobsRepoStub{
		users: []domain.User{{ID: "u1", Email: "a@x.com", Name: "Alice"}},
		goals: map[string][]domain.Goal{
			"u1": {
				{ID: "g1", UserID: "u1", Name: "Car", TargetAmount: 5000},
				{ID: "g2", UserID: "u1", Name: "Old", TargetAmount: 10, Withdrawn: true},
			},
		},
	}
	m := &jobsMailerStub{}

	result, err := newTestJobs(repo, m).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Sent != 1 || result.Skipped != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := result.Summary(); got != "Sent 1 emails, skipped 0 users" {
		t.Fatalf("unexpected summary %q", got)
	}
	if len(m.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(m.sent))
	}
	body := m.sent[0].Text
	if !strings.Contains(body, "Hello Alice,") {
		t.Fatalf("expected greeting for Alice, got %q", body)
	}
	if !strings.Contains(body, "• Car - $5000") {
		t.Fatalf("expected Car goal line, got %q", body)
	}
	if strings.Contains(body, "Old") {
		t.Fatalf("withdrawn goal must not be listed, got %q", body)
	}
}

func TestRun_SkipsUsersWithoutEmailOrGoals(t *testing.T) {
	repo := &jobsRepoStub{
		users: []domain.User{
			{ID: "u1", Name: "No Email"},
			{ID: "u2", Email: "b@x.com"},
			{ID: "u3", Email: "c@x.com"},
		},
		goals: map[string][]domain.Goal{
			"u1": {{Name: "Bike", TargetAmount: 100}},
			"u3": {{Name: "Gone", TargetAmount: 1, Withdrawn: true}},
		},
	}
	m := &jobsMailerStub{}

	result, err := newTestJobs(repo, m).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Sent != 0 || result.Skipped != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := result.Summary(); got != "Sent 0 emails, skipped 3 users" {
		t.Fatalf("unexpected summary %q", got)
	}
	if len(m.sent) != 0 {
		t.Fatalf("expected no emails, got %d", len(m.sent))
	}
}

func TestRun_SendFailureDoesNotAbortOthers(t *testing.T) {
	repo := &jobsRepoStub{
		users: []domain.User{
			{ID: "u1", Email: "a@x.com"},
			{ID: "u2", Email: "b@x.com"},
			{ID: "u3", Email: "c@x.com"},
		},
		goals: map[string][]domain.Goal{
			"u1": {{Name: "Car", TargetAmount: 1}},
			"u2": {{Name: "House", TargetAmount: 2}},
			"u3": {{Name: "Trip", TargetAmount: 3}},
		},
	}
	m := &jobsMailerStub{failFor: map[string]error{"b@x.com": errors.New("smtp down")}}

	result, err := newTestJobs(repo, m).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Sent != 2 || result.Failed != 1 || result.Skipped != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	got := m.recipients()
	if len(got) != 2 || got[0] != "a@x.com" || got[1] != "c@x.com" {
		t.Fatalf("unexpected recipients %v", got)
	}
}

func TestRun_GoalLookupFailureSkipsUser(t *testing.T) {
	repo := &jobsRepoStub{
		users: []domain.User{
			{ID: "u1", Email: "a@x.com"},
			{ID: "u2", Email: "b@x.com"},
		},
		goals:    map[string][]domain.Goal{"u2": {{Name: "Car", TargetAmount: 1}}},
		goalsErr: map[string]error{"u1": errors.New("deadline exceeded")},
	}
	m := &jobsMailerStub{}

	result, err := newTestJobs(repo, m).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Sent != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRun_ReturnsErrorWhenUsersUnavailable(t *testing.T) {
	repo := &jobsRepoStub{usersErr: errors.New("permission denied")}
	m := &jobsMailerStub{}

	_, err := newTestJobs(repo, m).Run(context.Background())
	if err == nil {
		t.Fatal("expected error when users cannot be listed")
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if len(m.sent) != 0 {
		t.Fatal("expected no emails after a failed user listing")
	}
}

func TestRun_NoUsers(t *testing.T) {
	result, err := newTestJobs(&jobsRepoStub{}, &jobsMailerStub{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := result.Summary(); got != "No users found" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestSendWeeklyReminders_SwallowsErrors(t *testing.T) {
	repo := &jobsRepoStub{usersErr: errors.New("unavailable")}
	m := &jobsMailerStub{}

	newTestJobs(repo, m).SendWeeklyReminders()

	if len(m.sent) != 0 {
		t.Fatal("expected no emails")
	}
}

func TestPrepareReminder(t *testing.T) {
	repo := &jobsRepoStub{
		users: []domain.User{
			{ID: "u1", Email: "a@x.com", Name: "Alice"},
			{ID: "u2"},
			{ID: "u3", Email: "c@x.com"},
		},
		goals: map[string][]domain.Goal{"u1": {{Name: "Car", TargetAmount: 5000}}},
	}
	jobs := newTestJobs(repo, &jobsMailerStub{})

	msg, err := jobs.PrepareReminder(context.Background(), "u1")
	if err != nil {
		t.Fatalf("PrepareReminder returned error: %v", err)
	}
	if msg.To != "a@x.com" || !strings.Contains(msg.Text, "• Car - $5000") {
		t.Fatalf("unexpected message %+v", msg)
	}

	if _, err := jobs.PrepareReminder(context.Background(), "u2"); !errors.Is(err, ErrNoEmail) {
		t.Fatalf("expected ErrNoEmail, got %v", err)
	}
	if _, err := jobs.PrepareReminder(context.Background(), "u3"); !errors.Is(err, ErrNoActiveGoals) {
		t.Fatalf("expected ErrNoActiveGoals, got %v", err)
	}
	if _, err := jobs.PrepareReminder(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeliver(t *testing.T) {
	m := &jobsMailerStub{}
	jobs := newTestJobs(&jobsRepoStub{}, m)

	if err := jobs.Deliver(context.Background(), mailer.Message{To: "a@x.com"}); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if got := m.recipients(); len(got) != 1 || got[0] != "a@x.com" {
		t.Fatalf("unexpected recipients %v", got)
	}
}
