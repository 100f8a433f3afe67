package admin

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userboard/internal/domain"
	"userboard/internal/repository"
	"userboard/internal/session"
	"userboard/internal/store/memory"
)

type fixture struct {
	users    repository.UserRepository
	sessions *session.Manager
	console  *Console
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	users := repository.NewUserRepository(memory.NewStore(zerolog.Nop()), zerolog.Nop())
	sessions := session.NewManager(memory.NewStore(zerolog.Nop()), users, zerolog.Nop())
	require.NoError(t, users.EnsureSeedAdmin(ctx))
	return &fixture{
		users:    users,
		sessions: sessions,
		console:  NewConsole(users, sessions, zerolog.Nop()),
	}
}

func (f *fixture) mustRegister(t *testing.T, username string) domain.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), domain.User{
		Username:        username,
		Password:        "Abcdef1!",
		Image:           "data:image/jpeg;base64,/9j/4AAQ",
		FirstName:       "דנה",
		LastName:        "לוי",
		Email:           username + "@example.com",
		DateOfBirth:     time.Now().AddDate(-30, 0, 0).Format("2006-01-02"),
		City:            "תל אביב",
		StreetName:      "הרצל",
		ApartmentNumber: "12",
	}, "Abcdef1!")
	require.NoError(t, err)
	return u
}

func (f *fixture) loginAdmin(t *testing.T) {
	t.Helper()
	_, _, err := f.sessions.Login(context.Background(), domain.AdminUsername, domain.AdminPassword)
	require.NoError(t, err)
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustRegister(t, "u1")

	assert.ErrorIs(t, f.console.Authorize(ctx), domain.ErrNotAuthorized)

	_, _, err := f.sessions.Login(ctx, "u1", "Abcdef1!")
	require.NoError(t, err)
	assert.ErrorIs(t, f.console.Authorize(ctx), domain.ErrNotAuthorized)

	f.loginAdmin(t)
	assert.NoError(t, f.console.Authorize(ctx))
}

func TestBeginEdit_CopiesFieldsExceptImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.mustRegister(t, "u1")

	draft, err := f.console.BeginEdit(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, u.FirstName, draft.FirstName)
	assert.Equal(t, u.LastName, draft.LastName)
	assert.Equal(t, u.DateOfBirth, draft.DateOfBirth)
	assert.Equal(t, u.City, draft.City)
	assert.Equal(t, u.StreetName, draft.StreetName)
	assert.Equal(t, u.ApartmentNumber, draft.ApartmentNumber)
}

func TestBeginEdit_ReplacesPriorDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustRegister(t, "u1")
	f.mustRegister(t, "u2")

	first, err := f.console.BeginEdit(ctx, "u1")
	require.NoError(t, err)
	first.FirstName = "השתנה"

	// Starting another row's edit silently drops the prior buffer.
	_, err = f.console.BeginEdit(ctx, "u2")
	require.NoError(t, err)

	draft, ok := f.console.Draft()
	require.True(t, ok)
	assert.Equal(t, "u2", draft.Username)

	rows, err := f.console.Rows(ctx)
	require.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, r.Username == "u2", r.Editing)
	}
}

func TestCancel_DiscardsWithoutPersisting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.mustRegister(t, "u1")

	draft, err := f.console.BeginEdit(ctx, "u1")
	require.NoError(t, err)
	draft.FirstName = "לא נשמר"
	f.console.Cancel()

	_, ok := f.console.Draft()
	assert.False(t, ok)

	got, err := f.users.FindByUsername(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, u.FirstName, got.FirstName)
}

func TestSave_PersistsWithoutValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustRegister(t, "u1")

	draft, err := f.console.BeginEdit(ctx, "u1")
	require.NoError(t, err)
	// Values the registration path would reject go through unchecked on
	// the admin path; pinned here so the asymmetry is not "fixed" by
	// accident.
	draft.City = "London"
	draft.ApartmentNumber = "12a"

	updated, err := f.console.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "London", updated.City)
	assert.Equal(t, "12a", updated.ApartmentNumber)

	_, ok := f.console.Draft()
	assert.False(t, ok)
}

func TestSave_RefreshesOwnSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.loginAdmin(t)

	draft, err := f.console.BeginEdit(ctx, domain.AdminUsername)
	require.NoError(t, err)
	draft.FirstName = "Root"

	_, err = f.console.Save(ctx)
	require.NoError(t, err)

	sess, ok := f.sessions.Current(ctx)
	require.True(t, ok)
	assert.Equal(t, "Root", sess.User.FirstName)
	assert.Equal(t, domain.RoleAdmin, sess.Role, "credentials unchanged, role preserved")
}

func TestDelete_OtherUserKeepsSessionAndConsole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustRegister(t, "u1")
	f.loginAdmin(t)

	dest, err := f.console.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.DestAdmin, dest)

	_, ok := f.sessions.Current(ctx)
	assert.True(t, ok)
}

func TestDelete_SelfClearsSessionAndSignalsLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.loginAdmin(t)

	dest, err := f.console.Delete(ctx, domain.AdminUsername)
	require.NoError(t, err)
	assert.Equal(t, domain.DestLogin, dest)

	_, ok := f.sessions.Current(ctx)
	assert.False(t, ok)
}

func TestDelete_DropsDraftOfDeletedRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustRegister(t, "u1")
	f.loginAdmin(t)

	_, err := f.console.BeginEdit(ctx, "u1")
	require.NoError(t, err)

	_, err = f.console.Delete(ctx, "u1")
	require.NoError(t, err)

	_, ok := f.console.Draft()
	assert.False(t, ok)
}

func TestRows_Rendering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.mustRegister(t, "u1")

	rows, err := f.console.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, domain.AdminUsername, rows[0].Username)
	assert.Equal(t, "Admin Superuser", rows[0].FullName)
	assert.Equal(t, "01 January 1990", rows[0].BirthDate)
	assert.False(t, rows[0].HasImage)

	assert.Equal(t, "דנה לוי", rows[1].FullName)
	assert.Equal(t, "תל אביב, הרצל, דירה 12", rows[1].Address)
	assert.True(t, rows[1].HasImage)
	assert.Equal(t, FormatBirthDate(u.DateOfBirth), rows[1].BirthDate)
}

func TestFormatBirthDate(t *testing.T) {
	assert.Equal(t, "02 May 1994", FormatBirthDate("1994-05-02"))
	assert.Equal(t, "", FormatBirthDate(""))
	assert.Equal(t, "", FormatBirthDate("not-a-date"))
}

// Full scenario: register, login, admin deletes the user.
func TestScenario_RegisterLoginAdminDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.mustRegister(t, "u1")
	users, err := f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, domain.AdminUsername, users[0].Username)
	assert.Equal(t, "u1", users[1].Username)

	sess, _, err := f.sessions.Login(ctx, "u1", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, sess.Role)

	// u1 is the active session, so the admin deleting them clears it.
	dest, err := f.console.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.DestLogin, dest)

	users, err = f.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.AdminUsername, users[0].Username)

	_, ok := f.sessions.Current(ctx)
	assert.False(t, ok)
}
