package bdoserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	userdomain "github.com/bdotrack/bdo-api/internal/domains/users/domain"
	userports "github.com/bdotrack/bdo-api/internal/domains/users/ports"
	"github.com/bdotrack/bdo-api/internal/shared/identity"
)

const currentUserKey = "bdo.current_user"

var errMissingBearer = errors.New("Invalid credentials")

// NewAuthMiddleware resolves the bearer token into the current user and
// aborts with 401 when that is not possible.
func NewAuthMiddleware(users userports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respondError(c, http.StatusUnauthorized, errMissingBearer)
			return
		}
		user, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// currentUser returns the authenticated user or answers 401 itself.
func currentUser(c *gin.Context) (*userdomain.User, bool) {
	value, ok := c.Get(currentUserKey)
	if ok {
		if user, ok := value.(*userdomain.User); ok && user != nil {
			return user, true
		}
	}
	respondError(c, http.StatusUnauthorized, errMissingBearer)
	return nil, false
}

func currentActor(c *gin.Context) (identity.Actor, bool) {
	user, ok := currentUser(c)
	if !ok {
		return identity.Actor{}, false
	}
	return user.Actor(), true
}
