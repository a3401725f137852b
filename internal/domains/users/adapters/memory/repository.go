package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bdotrack/bdo-api/internal/domains/users/domain"
	"github.com/bdotrack/bdo-api/internal/domains/users/ports"
)

// Repository is an in-memory user store keyed by username.
type Repository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	order []string
}

func NewRepository() *Repository {
	return &Repository{users: map[string]*domain.User{}}
}

func (r *Repository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Username]; ok {
		return nil, ports.ErrUsernameTaken
	}
	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.users[stored.Username] = &stored
	r.order = append(r.order, stored.Username)
	result := stored
	return &result, nil
}

func (r *Repository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[strings.TrimSpace(username)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	result := *user
	return &result, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.User, 0, len(r.order))
	for _, username := range r.order {
		user := *r.users[username]
		list = append(list, &user)
	}
	return list, nil
}

// SetDisabled flips the disabled flag of username.
func (r *Repository) SetDisabled(username string, disabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return ports.ErrNotFound
	}
	user.Disabled = disabled
	return nil
}

var _ ports.Repository = (*Repository)(nil)
