// Package domain contains the core business entities for userboard.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the user-management core.
package domain

// Fixed administrator credentials. The seed admin account is created with
// these on first run and the admin role is derived from an exact match.
const (
	AdminUsername = "admin"
	AdminPassword = "ad12343211ad"
)

// User represents a registered account.
// The JSON keys match the stored shape of the "users" collection, so
// previously persisted payloads decode unchanged.
type User struct {
	// Username uniquely identifies the user. Uniqueness is enforced
	// case-insensitively; the value itself is immutable after creation.
	Username string `json:"username"`

	// Password is stored and compared in plaintext. This is a demo
	// system, not a security boundary.
	Password string `json:"password"`

	// Image is a base64-encoded JPEG data string. Required at
	// registration, optional afterwards (empty renders a placeholder).
	Image string `json:"image"`

	// FirstName and LastName are script-homogeneous: all Hebrew or all
	// Latin letters, never mixed within one field.
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// Email must look like local@domain and end with ".com".
	Email string `json:"email"`

	// DateOfBirth is an ISO date string (YYYY-MM-DD).
	DateOfBirth string `json:"dateOfBirth"`

	// City is one of the fixed permitted city names.
	City string `json:"city"`

	// StreetName contains Hebrew letters and spaces only.
	StreetName string `json:"streetName"`

	// ApartmentNumber is a digits-only string (non-negative integer).
	ApartmentNumber string `json:"apartmentNumber"`
}

// FullName returns the display name used by listing views.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasAdminCredentials reports whether this record carries the fixed
// administrator credential pair.
func (u User) HasAdminCredentials() bool {
	return u.Username == AdminUsername && u.Password == AdminPassword
}

// ProfilePatch carries the mutable fields of a user record.
// Username, password and email are immutable after registration.
type ProfilePatch struct {
	FirstName       string
	LastName        string
	DateOfBirth     string
	City            string
	StreetName      string
	ApartmentNumber string

	// Image replaces the stored image only when non-nil. The admin edit
	// path always leaves it nil; only the owning user changes their photo.
	Image *string
}

// PatchOf returns a patch prefilled from the user's current fields,
// without the image.
func PatchOf(u User) ProfilePatch {
	return ProfilePatch{
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		DateOfBirth:     u.DateOfBirth,
		City:            u.City,
		StreetName:      u.StreetName,
		ApartmentNumber: u.ApartmentNumber,
	}
}

// Apply returns a copy of u with the patch's fields replaced.
func (p ProfilePatch) Apply(u User) User {
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.DateOfBirth = p.DateOfBirth
	u.City = p.City
	u.StreetName = p.StreetName
	u.ApartmentNumber = p.ApartmentNumber
	if p.Image != nil {
		u.Image = *p.Image
	}
	return u
}

// SeedAdmin returns the fixed administrator record inserted on first run.
func SeedAdmin() User {
	return User{
		Username:        AdminUsername,
		Password:        AdminPassword,
		FirstName:       "Admin",
		LastName:        "Superuser",
		Email:           "admin@admin.com",
		DateOfBirth:     "1990-01-01",
		City:            "AdminCity",
		StreetName:      "AdminStreet",
		ApartmentNumber: "1",
		Image:           "",
	}
}
