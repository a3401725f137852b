package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bdotrack/bdo-api/internal/domains/users/domain"
	"github.com/bdotrack/bdo-api/internal/domains/users/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	tokens   ports.TokenIssuer
}

func NewService(repo ports.Repository, sessions ports.SessionStore, tokens ports.TokenIssuer) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	return &Service{repo: repo, sessions: sessions, tokens: tokens}
}

// Login checks credentials, issues a bearer token and records the session.
func (s *Service) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrIncorrectUsername
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrIncorrectUsername
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrIncorrectPassword
	}
	if user.Disabled {
		return nil, ErrInactiveUser
	}
	token, expiresAt, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, user.Username, token); err != nil {
		return nil, err
	}
	return &ports.Session{
		Token:     token,
		TokenType: ports.TokenTypeBearer,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate resolves the live, enabled user behind a bearer token.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	username, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	live, err := s.sessions.Exists(ctx, token)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, fmt.Errorf("%w: session expired or revoked", ErrUnauthorized)
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return nil, err
	}
	if user.Disabled {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// Logout revokes every session of username.
func (s *Service) Logout(ctx context.Context, username string) error {
	if strings.TrimSpace(username) == "" {
		return nil
	}
	return s.sessions.Delete(ctx, username)
}

func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// CreateUser registers an account on behalf of a supervisor or admin. The
// username is derived from the initials, suffixed until unique.
func (s *Service) CreateUser(ctx context.Context, actor identity.Actor, input ports.NewUserInput) (*domain.User, error) {
	if actor.Role == identity.RoleOperator {
		return nil, ErrForbidden
	}
	user, err := domain.NewUser(input.FirstName, input.LastName, input.Role, input.Zone)
	if err != nil {
		return nil, mapError(err)
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, mapError(err)
	}
	base := domain.BaseUsername(user.FirstName, user.LastName)
	for n := 0; n < maxUsernameAttempts; n++ {
		candidate := domain.CandidateUsername(base, n)
		taken, err := s.usernameTaken(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}
		user.Username = candidate
		created, err := s.repo.Create(ctx, user)
		if errors.Is(err, ports.ErrUsernameTaken) {
			continue
		}
		if err != nil {
			return nil, mapError(err)
		}
		return created, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUsernameExhausted, base)
}

func (s *Service) usernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	return false, err
}

var _ ports.Service = (*Service)(nil)
