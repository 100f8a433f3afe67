// Package session tracks the currently authenticated identity in the
// scoped store. One session exists at a time; its persisted form is the
// matched user record under the "sessionUser" key, and the role is
// derived on every read rather than stored.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"userboard/internal/domain"
	"userboard/internal/metrics"
	"userboard/internal/repository"
	"userboard/internal/store"
)

// Manager reads and writes the scoped store's session entry. It is the
// single authoritative session-state holder: views read from it and may
// subscribe to be notified when the identity changes.
type Manager struct {
	scoped store.Store
	users  repository.UserRepository
	logger zerolog.Logger

	mu          sync.Mutex
	subscribers []func(*domain.Session)
}

// NewManager creates a session manager over the scoped store.
func NewManager(scoped store.Store, users repository.UserRepository, logger zerolog.Logger) *Manager {
	return &Manager{
		scoped: scoped,
		users:  users,
		logger: logger.With().Str("component", "session_manager").Logger(),
	}
}

// Login authenticates by exact, case-sensitive username+password match.
// On success the matched record is stored as the session and the derived
// role decides the post-login destination. On failure the store is left
// untouched and the error never reveals which credential was wrong.
func (m *Manager) Login(ctx context.Context, username, password string) (*domain.Session, domain.Destination, error) {
	users, err := m.users.List(ctx)
	if err != nil {
		return nil, domain.DestNone, err
	}

	for _, u := range users {
		if u.Username != username || u.Password != password {
			continue
		}

		if err := store.SetJSON(ctx, m.scoped, store.SessionKey, u); err != nil {
			return nil, domain.DestNone, err
		}

		sess := &domain.Session{User: u, Role: domain.RoleOf(u)}
		metrics.ObserveLogin("ok")
		m.logger.Info().Str("username", u.Username).Str("role", string(sess.Role)).Msg("login succeeded")
		m.notify(sess)

		dest := domain.DestProfile
		if sess.Role == domain.RoleAdmin {
			dest = domain.DestAdmin
		}
		return sess, dest, nil
	}

	metrics.ObserveLogin("rejected")
	m.logger.Debug().Str("username", username).Msg("login rejected")
	return nil, domain.DestNone, domain.ErrInvalidCredentials
}

// Logout clears the session entry.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.scoped.Remove(ctx, store.SessionKey); err != nil {
		return err
	}
	m.logger.Info().Msg("logged out")
	m.notify(nil)
	return nil
}

// Current rehydrates the session from the scoped store. It does not check
// that the referenced user still exists; see Active.
func (m *Manager) Current(ctx context.Context) (*domain.Session, bool) {
	u := store.GetJSON[*domain.User](ctx, m.scoped, store.SessionKey, nil)
	if u == nil {
		return nil, false
	}
	return &domain.Session{User: *u, Role: domain.RoleOf(*u)}, true
}

// Active returns the current session only if its username still exists in
// the user collection. A stale session (referenced user deleted by some
// other path) is treated as logged out.
func (m *Manager) Active(ctx context.Context) (*domain.Session, bool) {
	sess, ok := m.Current(ctx)
	if !ok {
		return nil, false
	}
	if _, err := m.users.FindByUsername(ctx, sess.User.Username); err != nil {
		m.logger.Warn().Str("username", sess.User.Username).Msg("stale session ignored")
		return nil, false
	}
	return sess, true
}

// Role derives the role of the current identity; anonymous when no active
// session exists.
func (m *Manager) Role(ctx context.Context) domain.Role {
	sess, ok := m.Active(ctx)
	if !ok {
		return domain.RoleAnonymous
	}
	return sess.Role
}

// RefreshIfSelf replaces the stored session when updated is the session's
// own user, keeping the session consistent after a self-edit or an
// admin-edit-of-self.
func (m *Manager) RefreshIfSelf(ctx context.Context, updated domain.User) error {
	sess, ok := m.Current(ctx)
	if !ok || sess.User.Username != updated.Username {
		return nil
	}

	if err := store.SetJSON(ctx, m.scoped, store.SessionKey, updated); err != nil {
		return err
	}
	refreshed := &domain.Session{User: updated, Role: domain.RoleOf(updated)}
	m.logger.Debug().Str("username", updated.Username).Msg("session refreshed")
	m.notify(refreshed)
	return nil
}

// InvalidateIfSelf clears the session when it references the deleted
// username.
func (m *Manager) InvalidateIfSelf(ctx context.Context, deletedUsername string) error {
	sess, ok := m.Current(ctx)
	if !ok || sess.User.Username != deletedUsername {
		return nil
	}

	if err := m.scoped.Remove(ctx, store.SessionKey); err != nil {
		return err
	}
	m.logger.Info().Str("username", deletedUsername).Msg("session invalidated")
	m.notify(nil)
	return nil
}

// Subscribe registers fn to be called on every session change with the
// new session, or nil when the session ends. Navigation chrome uses this
// instead of polling the store.
func (m *Manager) Subscribe(fn func(*domain.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

func (m *Manager) notify(sess *domain.Session) {
	m.mu.Lock()
	subs := make([]func(*domain.Session), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(sess)
	}
}
