package auth

import (
	"errors"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// DefaultAdminEmail receives the admin role on registration unless configured otherwise.
const DefaultAdminEmail = "admin@lumen.ai"

// EducationalLevels are the academic tiers a profile can select.
var EducationalLevels = []string{
	"Secondary",
	"High School",
	"University (Undergraduate)",
	"University (Postgraduate)",
	"Vocational",
	"Other",
}

// DefaultEducationalLevel is assumed when no one is signed in.
const DefaultEducationalLevel = "University (Undergraduate)"

// IsEducationalLevel reports whether s is one of EducationalLevels (case-insensitive).
func IsEducationalLevel(s string) bool {
	_, ok := CanonicalLevel(s)
	return ok
}

// CanonicalLevel maps s to its spelling in EducationalLevels.
func CanonicalLevel(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, l := range EducationalLevels {
		if strings.EqualFold(l, s) {
			return l, true
		}
	}
	return "", false
}

// Profile is the public part of a user record.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Level string `json:"level"`
	Role  Role   `json:"role,omitempty"`
}

func (p Profile) IsAdmin() bool { return p.Role == RoleAdmin }

type userRecord struct {
	Profile
	Secret string `json:"secret"`
}

var (
	ErrEmailInUse         = errors.New("email is already in use")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrNotSignedIn        = errors.New("not signed in")
)

// ValidationError reports a rejected profile field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
