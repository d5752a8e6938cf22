/**
 * @description
 * Domain models for the reminder-service. Users and goals are owned by the mobile app and
 * read from Firestore; this service never writes them.
 */
package domain

import (
	"errors"
	"fmt"
)

// ErrUserNotFound is returned when a user document does not exist.
var ErrUserNotFound = errors.New("user not found")

// DefaultDisplayName is used in greetings when a user has no name on file.
const DefaultDisplayName = "User"

// User is a document from the "users" collection.
type User struct {
	ID    string
	Email string
	Name  string
}

// DisplayName returns the name used in greetings.
func (u User) DisplayName() string {
	if u.Name == "" {
		return DefaultDisplayName
	}
	return u.Name
}

// Goal is a document from the "goals" collection.
type Goal struct {
	ID           string
	UserID       string
	Name         string
	TargetAmount float64
	Withdrawn    bool
}

// RunResult summarises one reminder run.
type RunResult struct {
	Users   int
	Sent    int
	Skipped int
	Failed  int
}

// Summary is the message returned by the manual trigger.
func (r RunResult) Summary() string {
	if r.Users == 0 {
		return "No users found"
	}
	return fmt.Sprintf("Sent %d emails, skipped %d users", r.Sent, r.Skipped)
}
