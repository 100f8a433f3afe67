// Package repository provides data access over the durable store's user
// collection. The interface abstracts the storage so the session manager
// and the admin console stay decoupled from the backing scope.
package repository

import (
	"context"

	"userboard/internal/domain"
)

// UserRepository defines CRUD over the user collection.
type UserRepository interface {
	// List returns all users in insertion order.
	List(ctx context.Context) ([]domain.User, error)

	// FindByUsername retrieves a user by exact, case-sensitive username.
	// Returns domain.ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (domain.User, error)

	// UsernameAvailable reports whether a new account could take the
	// given username. Comparison is case-insensitive; a blank name is
	// never available.
	UsernameAvailable(ctx context.Context, username string) (bool, error)

	// Register validates the candidate and appends it to the collection.
	// A rule failure returns a *domain.ValidationError carrying the full
	// field-error mapping; the collection is left untouched.
	Register(ctx context.Context, candidate domain.User, confirmPassword string) (domain.User, error)

	// UpdateUser replaces the mutable fields of the matching record.
	// The stored image changes only when the patch carries one.
	// Returns domain.ErrUserNotFound when absent.
	UpdateUser(ctx context.Context, username string, patch domain.ProfilePatch) (domain.User, error)

	// DeleteUser removes the record. Deleting an absent username is an
	// idempotent no-op; the boolean reports whether a record was removed.
	DeleteUser(ctx context.Context, username string) (bool, error)

	// EnsureSeedAdmin inserts the fixed admin record if no "admin"
	// username exists. Safe to call on every startup.
	EnsureSeedAdmin(ctx context.Context) error
}
