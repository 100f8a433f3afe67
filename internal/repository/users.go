package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"userboard/internal/domain"
	"userboard/internal/metrics"
	"userboard/internal/store"
	"userboard/internal/validation"
)

// userRepository implements UserRepository over a durable store.Store.
// The whole collection lives under one key as a JSON array, insertion
// order preserved, exactly the persisted layout of the source system.
type userRepository struct {
	durable store.Store
	logger  zerolog.Logger
}

// NewUserRepository creates a store-backed user repository.
func NewUserRepository(durable store.Store, logger zerolog.Logger) UserRepository {
	return &userRepository{
		durable: durable,
		logger:  logger.With().Str("component", "user_repository").Logger(),
	}
}

// List returns all users in insertion order.
func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.load(ctx), nil
}

// FindByUsername retrieves a user by exact, case-sensitive username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	for _, u := range r.load(ctx) {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, fmt.Errorf("%w: %q", domain.ErrUserNotFound, username)
}

// UsernameAvailable reports whether username is free, case-insensitively.
func (r *userRepository) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		return false, nil
	}
	for _, u := range r.load(ctx) {
		if strings.EqualFold(u.Username, username) {
			return false, nil
		}
	}
	return true, nil
}

// Register validates the candidate and appends it to the collection.
func (r *userRepository) Register(ctx context.Context, candidate domain.User, confirmPassword string) (domain.User, error) {
	users := r.load(ctx)

	if errs := validation.ValidateRegistration(candidate, confirmPassword, users); len(errs) > 0 {
		metrics.ObserveValidationFailures(errs.Fields())
		r.logger.Debug().
			Str("username", candidate.Username).
			Strs("fields", errs.Fields()).
			Msg("registration rejected")
		return domain.User{}, domain.NewValidationError(errs)
	}

	users = append(users, candidate)
	if err := r.save(ctx, users); err != nil {
		return domain.User{}, err
	}

	metrics.ObserveRegistration()
	r.logger.Info().Str("username", candidate.Username).Msg("user registered")
	return candidate, nil
}

// UpdateUser replaces the mutable fields of the matching record.
func (r *userRepository) UpdateUser(ctx context.Context, username string, patch domain.ProfilePatch) (domain.User, error) {
	users := r.load(ctx)

	for i, u := range users {
		if u.Username != username {
			continue
		}
		updated := patch.Apply(u)
		users[i] = updated
		if err := r.save(ctx, users); err != nil {
			return domain.User{}, err
		}

		metrics.ObserveUserUpdated()
		r.logger.Info().Str("username", username).Msg("user updated")
		return updated, nil
	}

	return domain.User{}, fmt.Errorf("%w: %q", domain.ErrUserNotFound, username)
}

// DeleteUser removes the record; absent usernames are a no-op.
func (r *userRepository) DeleteUser(ctx context.Context, username string) (bool, error) {
	users := r.load(ctx)

	kept := users[:0:0]
	removed := false
	for _, u := range users {
		if u.Username == username {
			removed = true
			continue
		}
		kept = append(kept, u)
	}
	if !removed {
		return false, nil
	}

	if err := r.save(ctx, kept); err != nil {
		return false, err
	}

	metrics.ObserveUserDeleted()
	r.logger.Info().Str("username", username).Msg("user deleted")
	return true, nil
}

// EnsureSeedAdmin inserts the fixed admin record if absent. Idempotent.
func (r *userRepository) EnsureSeedAdmin(ctx context.Context) error {
	users := r.load(ctx)

	for _, u := range users {
		if u.Username == domain.AdminUsername {
			return nil
		}
	}

	users = append(users, domain.SeedAdmin())
	if err := r.save(ctx, users); err != nil {
		return err
	}

	r.logger.Info().Str("username", domain.AdminUsername).Msg("seed admin created")
	return nil
}

// load reads the collection; an absent or unparsable key is an empty
// collection.
func (r *userRepository) load(ctx context.Context) []domain.User {
	return store.GetJSON(ctx, r.durable, store.UsersKey, []domain.User{})
}

// save writes the whole collection back. A nil slice still encodes as an
// empty JSON array so readers of the raw key never see "null".
func (r *userRepository) save(ctx context.Context, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}
	if err := store.SetJSON(ctx, r.durable, store.UsersKey, users); err != nil {
		r.logger.Error().Err(err).Msg("failed to persist user collection")
		return fmt.Errorf("failed to persist users: %w", err)
	}
	return nil
}

// Ensure userRepository implements UserRepository.
var _ UserRepository = (*userRepository)(nil)
