package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

var (
	ErrEmptyUsername    = errors.New("username is required")
	ErrEmptyPassword    = errors.New("password is required")
	ErrWeakPassword     = errors.New("password must be at least 4 characters")
	ErrMissingFirstName = errors.New("first name is required")
	ErrMissingLastName  = errors.New("last name is required")
	ErrMissingZone      = errors.New("zone is required")
	ErrInvalidRole      = errors.New("role must be one of Admin, Supervisor, Operador")
)

const minPasswordLength = 4

// User is an account allowed to operate on reports.
type User struct {
	ID           string
	Username     string
	FirstName    string
	LastName     string
	Role         identity.Role
	Zone         string
	Disabled     bool
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser builds an enabled user without credentials or username.
func NewUser(firstName, lastName string, role identity.Role, zone string) (*User, error) {
	user := &User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Role:      role,
		Zone:      strings.TrimSpace(zone),
	}
	if err := user.validateProfile(); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *User) validateProfile() error {
	if u.FirstName == "" {
		return ErrMissingFirstName
	}
	if u.LastName == "" {
		return ErrMissingLastName
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	if u.Zone == "" {
		return ErrMissingZone
	}
	return nil
}

// Validate re-applies the invariants required before persisting.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if u.PasswordHash == "" {
		return ErrEmptyPassword
	}
	return u.validateProfile()
}

// FullName joins first and last name the way operators are displayed on reports.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Actor projects the user into the identity consumed by the other contexts.
func (u *User) Actor() identity.Actor {
	return identity.Actor{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName(),
		Role:     u.Role,
		Zone:     u.Zone,
	}
}

// BaseUsername returns the uppercase initials of every word in the first and
// last name ("ana maria", "ruiz" -> "AMR").
func BaseUsername(firstName, lastName string) string {
	var b strings.Builder
	for _, word := range append(strings.Fields(firstName), strings.Fields(lastName)...) {
		for _, r := range word {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return b.String()
}

// CandidateUsername returns the n-th attempt for base: base itself first,
// then base1, base2 and so on.
func CandidateUsername(base string, n int) string {
	if n <= 0 {
		return base
	}
	return base + strconv.Itoa(n)
}
