package domain

// Role classifies the current identity. It is always derived from the
// session contents, never stored on its own.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
)

// Session identifies the currently authenticated user for the lifetime of
// the scoped store. The persisted form is the user record itself (stored
// under the "sessionUser" key); Role is recomputed on rehydration.
type Session struct {
	User User
	Role Role
}

// RoleOf derives the role for a user record: admin iff the record carries
// the fixed admin credential pair.
func RoleOf(u User) Role {
	if u.HasAdminCredentials() {
		return RoleAdmin
	}
	return RoleUser
}

// Destination tells the navigation collaborator where to go after an
// operation. The core never navigates itself; it only signals.
type Destination string

const (
	DestNone    Destination = ""
	DestLogin   Destination = "login"
	DestProfile Destination = "profile"
	DestAdmin   Destination = "admin"
)
