package bdoserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/bdotrack/bdo-api/internal/domains/users/adapters/http/mapper"
	userports "github.com/bdotrack/bdo-api/internal/domains/users/ports"
)

// UsersAPI implements the users section.
type UsersAPI struct {
	service userports.Service
}

// NewUsersAPI wires dependencies.
func NewUsersAPI(service userports.Service) UsersAPI {
	return UsersAPI{service: service}
}

// Post /users/login
// Logs user into the system
func (api *UsersAPI) Login(c *gin.Context) {
	var payload userhttpmapper.Credentials
	if err := c.ShouldBind(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	session, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromSession(session))
}

// Post /users/logout
// Revokes every session of the current user
func (api *UsersAPI) Logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := api.service.Logout(c.Request.Context(), user.Username); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// Get /users/me
// Current user
func (api *UsersAPI) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

// Get /users/all
// Lists every user
func (api *UsersAPI) List(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	users, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUsers(users))
}

// Post /users/
// Creates a user; operators may not create accounts
func (api *UsersAPI) CreateUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var payload userhttpmapper.CreateUser
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := api.service.CreateUser(c.Request.Context(), actor, userhttpmapper.ToNewUserInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userhttpmapper.FromDomainUser(user))
}
