package mapper

import (
	userdomain "github.com/bdotrack/bdo-api/internal/domains/users/domain"
	userports "github.com/bdotrack/bdo-api/internal/domains/users/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

// User represents the transport-level user payload. Password hashes never leave
// the service.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Zone      string `json:"zone"`
	Disabled  bool   `json:"disabled"`
}

// CreateUser is the inbound payload for registering an account.
type CreateUser struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role" binding:"required"`
	Zone      string `json:"zone" binding:"required"`
}

// Credentials is the login payload, accepted as form fields or JSON.
type Credentials struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Token is the login response.
type Token struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	Role      string `json:"role"`
}

// ToNewUserInput converts the creation payload to the service input.
func ToNewUserInput(payload CreateUser) userports.NewUserInput {
	return userports.NewUserInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Password:  payload.Password,
		Role:      identity.Role(payload.Role),
		Zone:      payload.Zone,
	}
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		Zone:      user.Zone,
		Disabled:  user.Disabled,
	}
}

// FromDomainUsers converts a slice of domain users to transport representation.
func FromDomainUsers(users []*userdomain.User) []User {
	result := make([]User, 0, len(users))
	for _, user := range users {
		result = append(result, FromDomainUser(user))
	}
	return result
}

// FromSession converts a login session to the token response.
func FromSession(session *userports.Session) Token {
	if session == nil {
		return Token{}
	}
	return Token{Token: session.Token, TokenType: session.TokenType, Role: string(session.Role)}
}
