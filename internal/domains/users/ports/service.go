package ports

import (
	"context"
	"time"

	"github.com/bdotrack/bdo-api/internal/domains/users/domain"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

const TokenTypeBearer = "bearer"

// Session is the result of a successful login.
type Session struct {
	Token     string
	TokenType string
	Role      identity.Role
	ExpiresAt time.Time
}

// NewUserInput carries the fields an administrator supplies for a new account.
type NewUserInput struct {
	FirstName string
	LastName  string
	Password  string
	Role      identity.Role
	Zone      string
}

// Service exposes user bounded context use cases to adapters.
type Service interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, username string) error
	List(ctx context.Context) ([]*domain.User, error)
	CreateUser(ctx context.Context, actor identity.Actor, input NewUserInput) (*domain.User, error)
}
