/**
 * @description
 * Read-only Firestore repository for the reminder-service. It lists the documents of the
 * "users" collection and the active (non-withdrawn) documents of the "goals" collection
 * for a given user.
 *
 * @dependencies
 * - cloud.google.com/go/firestore: Firestore client.
 * - firebase.google.com/go/v4: Firebase app bootstrap, used to obtain the Firestore client.
 * - google.golang.org/api/iterator, google.golang.org/api/option.
 * - google.golang.org/grpc/status: NotFound detection on single-document reads.
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/reminder/domain"
)

const (
	usersCollection = "users"
	goalsCollection = "goals"
)

type userDocument struct {
	Email string `firestore:"email"`
	Name  string `firestore:"name"`
}

type goalDocument struct {
	UserID       string      `firestore:"userId"`
	Name         string      `firestore:"name"`
	TargetAmount interface{} `firestore:"targetAmount"`
	Withdrawn    bool        `firestore:"withdrawn"`
}

// NewFirestoreClient initializes a Firebase app and returns its Firestore client. When
// credentialsFile is empty, Application Default Credentials are used.
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}

	return client, nil
}

// FirestoreRepository reads users and goals from Firestore.
type FirestoreRepository struct {
	client *firestore.Client
	logger *slog.Logger
}

// NewFirestoreRepository creates a new repository.
func NewFirestoreRepository(client *firestore.Client, logger *slog.Logger) *FirestoreRepository {
	return &FirestoreRepository{client: client, logger: logger}
}

// ListUsers returns every document of the users collection. A document that cannot be
// decoded is returned with only its ID so that the caller skips it for lack of an email.
func (r *FirestoreRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	iter := r.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	var users []domain.User
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		var doc userDocument
		if err := snap.DataTo(&doc); err != nil {
			r.logger.Warn("failed to decode user document", "user_id", snap.Ref.ID, "error", err)
			users = append(users, domain.User{ID: snap.Ref.ID})
			continue
		}
		users = append(users, domain.User{ID: snap.Ref.ID, Email: doc.Email, Name: doc.Name})
	}

	return users, nil
}

// GetUser reads a single user document.
func (r *FirestoreRepository) GetUser(ctx context.Context, userID string) (domain.User, error) {
	snap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	var doc userDocument
	if err := snap.DataTo(&doc); err != nil {
		return domain.User{}, fmt.Errorf("failed to decode user %s: %w", userID, err)
	}
	return domain.User{ID: snap.Ref.ID, Email: doc.Email, Name: doc.Name}, nil
}

// ListActiveGoals returns the goals of userID whose withdrawn flag is false. Goals that
// cannot be decoded are logged and left out.
func (r *FirestoreRepository) ListActiveGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	iter := r.client.Collection(goalsCollection).
		Where("userId", "==", userID).
		Where("withdrawn", "==", false).
		Documents(ctx)
	defer iter.Stop()

	var goals []domain.Goal
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list goals for user %s: %w", userID, err)
		}

		var doc goalDocument
		if err := snap.DataTo(&doc); err != nil {
			r.logger.Warn("dropping undecodable goal", "user_id", userID, "goal_id", snap.Ref.ID, "error", err)
			continue
		}
		goal, err := toGoal(snap.Ref.ID, doc)
		if err != nil {
			r.logger.Warn("dropping goal with invalid amount", "user_id", userID, "goal_id", snap.Ref.ID, "error", err)
			continue
		}
		goals = append(goals, goal)
	}

	return goals, nil
}

func toGoal(id string, doc goalDocument) (domain.Goal, error) {
	amount, err := parseAmount(doc.TargetAmount)
	if err != nil {
		return domain.Goal{}, fmt.Errorf("goal %s: %w", id, err)
	}
	return domain.Goal{
		ID:           id,
		UserID:       doc.UserID,
		Name:         doc.Name,
		TargetAmount: amount,
		Withdrawn:    doc.Withdrawn,
	}, nil
}

// parseAmount accepts the numeric shapes the mobile app has written for targetAmount.
func parseAmount(v interface{}) (float64, error) {
	switch amount := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return float64(amount), nil
	case float64:
		return amount, nil
	case string:
		parsed, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid targetAmount %q: %w", amount, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported targetAmount type %T", v)
	}
}
