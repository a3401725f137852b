package ports

import (
	"context"
	"errors"

	"github.com/bdotrack/bdo-api/internal/domains/users/domain"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// Repository persists user accounts keyed by username.
type Repository interface {
	// Create stores a new user and returns it with its assigned id.
	// It returns ErrUsernameTaken when the username already exists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
