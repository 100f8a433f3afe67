// Package validation implements the field-validation rules for user
// records. All functions are pure: they inspect a candidate record and
// return a field-error mapping, never touching storage. Every rule is
// evaluated independently so a submitted form surfaces all of its
// violations at once.
//
// The rules and messages are fixed; the validation language is Hebrew
// and is not localized.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"userboard/internal/domain"
)

// Age bounds implied by the date of birth.
const (
	MinAge = 18
	MaxAge = 120
)

// Password length bounds, counted in characters.
const (
	MinPasswordLen = 7
	MaxPasswordLen = 12
)

// cityOptions is the closed list of permitted city names.
var cityOptions = []string{
	"תל אביב",
	"חיפה",
	"ירושלים",
	"באר שבע",
	"ראשון לציון",
	"נתניה",
	"אילת",
	"אשדוד",
	"פתח תקווה",
}

var (
	// Only Hebrew letters (and spaces).
	hebrewRegex = regexp.MustCompile(`^[\x{0590}-\x{05FF}\s]+$`)

	// Only Latin letters (and spaces).
	latinRegex = regexp.MustCompile(`^[A-Za-z\s]+$`)

	// local@domain shape; the ".com" suffix is checked separately.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Non-negative integer.
	digitsRegex = regexp.MustCompile(`^\d+$`)

	// Password content clauses. The length clause is checked on its own
	// since RE2 has no lookaheads.
	hasUpperRegex   = regexp.MustCompile(`[A-Z]`)
	hasDigitRegex   = regexp.MustCompile(`\d`)
	hasSpecialRegex = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Cities returns a copy of the permitted city list.
func Cities() []string {
	out := make([]string, len(cityOptions))
	copy(out, cityOptions)
	return out
}

// CitySuggestions returns the permitted cities starting with prefix, for
// autocomplete controls. An empty prefix returns the whole list.
func CitySuggestions(prefix string) []string {
	var out []string
	for _, c := range cityOptions {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// ValidCity reports whether city is a member of the permitted list.
func ValidCity(city string) bool {
	for _, c := range cityOptions {
		if c == city {
			return true
		}
	}
	return false
}

// ValidateRegistration checks a registration candidate against all field
// rules and against the existing collection for username availability.
// An empty mapping signals a valid record.
func ValidateRegistration(candidate domain.User, confirmPassword string, existing []domain.User) domain.FieldErrors {
	errs := domain.FieldErrors{}

	if strings.TrimSpace(candidate.Username) == "" {
		errs["username"] = "יש להזין שם משתמש."
	} else if usernameExists(candidate.Username, existing) {
		errs["username"] = "שם המשתמש כבר תפוס."
	}

	validateName(errs, "firstName", candidate.FirstName,
		"יש להזין שם פרטי.",
		"השם הפרטי חייב להיות בעברית או באנגלית בלבד, ללא שילוב.")
	validateName(errs, "lastName", candidate.LastName,
		"יש להזין שם משפחה.",
		"שם המשפחה חייב להיות בעברית או באנגלית בלבד, ללא שילוב.")

	if !validPassword(candidate.Password) {
		errs["password"] = "הסיסמה חייבת להיות באורך 7 עד 12 תווים, ולכלול לפחות אות גדולה, מספר ותו מיוחד."
	}
	if candidate.Password != confirmPassword {
		errs["confirmPassword"] = "אישור הסיסמה אינו תואם לסיסמה."
	}

	if candidate.Image == "" {
		errs["image"] = "יש להעלות תמונה."
	}

	if !emailRegex.MatchString(candidate.Email) || !strings.HasSuffix(candidate.Email, ".com") {
		errs["email"] = "האימייל חייב להסתיים ב-.com"
	}

	if candidate.DateOfBirth == "" {
		errs["dateOfBirth"] = "יש להזין תאריך לידה."
	} else if age, err := Age(candidate.DateOfBirth, time.Now()); err != nil || age < MinAge || age > MaxAge {
		errs["dateOfBirth"] = "הגיל חייב להיות בין 18 ל-120."
	}

	if !ValidCity(candidate.City) {
		errs["city"] = "יש לבחור עיר מהרשימה בלבד."
	}

	if strings.TrimSpace(candidate.StreetName) == "" {
		errs["streetName"] = "יש להזין שם רחוב."
	} else if !hebrewRegex.MatchString(candidate.StreetName) {
		errs["streetName"] = "שם הרחוב חייב להכיל אותיות בעברית בלבד."
	}

	validateApartment(errs, candidate.ApartmentNumber)

	return errs
}

// ValidateProfileUpdate checks the free-text fields of a self-edit patch:
// city, street name and apartment number. The other patch fields pass
// through unchecked, matching the source system's self-edit form.
func ValidateProfileUpdate(patch domain.ProfilePatch) domain.FieldErrors {
	errs := domain.FieldErrors{}

	if !ValidCity(patch.City) {
		errs["city"] = "יש לבחור עיר מהרשימה בלבד."
	}
	if !hebrewRegex.MatchString(patch.StreetName) {
		errs["streetName"] = "שם הרחוב חייב להיות בעברית בלבד."
	}
	validateApartment(errs, patch.ApartmentNumber)

	return errs
}

// Age computes whole elapsed years between an ISO date and now using
// calendar arithmetic: a birthday later in the current year than today
// does not count as a full year.
func Age(dateOfBirth string, now time.Time) (int, error) {
	dob, err := time.Parse("2006-01-02", dateOfBirth)
	if err != nil {
		return 0, err
	}

	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age, nil
}

// validateName checks the non-empty and script-homogeneity rules for a
// first or last name: exactly one of all-Hebrew / all-Latin must hold.
func validateName(errs domain.FieldErrors, field, value, emptyMsg, mixedMsg string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = emptyMsg
		return
	}
	isHebrew := hebrewRegex.MatchString(value)
	isLatin := latinRegex.MatchString(value)
	if isHebrew == isLatin {
		errs[field] = mixedMsg
	}
}

func validateApartment(errs domain.FieldErrors, value string) {
	if strings.TrimSpace(value) == "" {
		errs["apartmentNumber"] = "יש להזין מספר דירה."
	} else if !digitsRegex.MatchString(value) {
		errs["apartmentNumber"] = "מספר דירה חייב להיות מספר חיובי או אפס."
	}
}

// validPassword checks the password shape: 7-12 characters with at least
// one uppercase Latin letter, one digit and one non-alphanumeric.
func validPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLen || n > MaxPasswordLen {
		return false
	}
	return hasUpperRegex.MatchString(password) &&
		hasDigitRegex.MatchString(password) &&
		hasSpecialRegex.MatchString(password)
}

// usernameExists reports whether name collides with an existing username
// under case-insensitive comparison. Login stays exact-case; only
// availability folds case.
func usernameExists(name string, existing []domain.User) bool {
	for _, u := range existing {
		if strings.EqualFold(u.Username, name) {
			return true
		}
	}
	return false
}
