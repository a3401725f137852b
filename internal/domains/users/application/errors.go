package application

import (
	"errors"
	"fmt"

	"github.com/bdotrack/bdo-api/internal/domains/users/domain"
	"github.com/bdotrack/bdo-api/internal/domains/users/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrIncorrectUsername is returned by login for unknown usernames.
	ErrIncorrectUsername = errors.New("Incorrect username")
	// ErrIncorrectPassword is returned by login when the password does not match.
	ErrIncorrectPassword = errors.New("Incorrect password")
	// ErrUnauthorized covers missing, invalid, expired or revoked tokens.
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrInactiveUser is returned for disabled accounts.
	ErrInactiveUser = errors.New("Inactive user")
	// ErrForbidden is returned when the actor's role may not perform the action.
	ErrForbidden = errors.New("not enough permissions")
	// ErrNotFound is returned when the user does not exist.
	ErrNotFound = ports.ErrNotFound
)

const maxUsernameAttempts = 1000

// ErrUsernameExhausted means every suffixed username for the initials is taken.
var ErrUsernameExhausted = errors.New("no free username left for these initials")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrMissingFirstName) ||
		errors.Is(err, domain.ErrMissingLastName) ||
		errors.Is(err, domain.ErrMissingZone) ||
		errors.Is(err, domain.ErrInvalidRole) ||
		errors.Is(err, domain.ErrEmptyUsername) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
