package bdoserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RootAPI answers the liveness route.
type RootAPI struct{}

// Get /
func (api *RootAPI) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
}
