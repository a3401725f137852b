package ports

import (
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenIssuer signs and verifies bearer access tokens.
type TokenIssuer interface {
	Issue(username string) (token string, expiresAt time.Time, err error)
	// Verify returns the username the token was issued for.
	Verify(token string) (string, error)
}
