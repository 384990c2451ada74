package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/verdipos/verdi_backend/utils"
)

// RequireLogin sends anonymous requests to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIdFromContext(c.Request.Context()); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUsername is the logged in user's name, empty for anonymous requests.
func CurrentUsername(c *gin.Context) string {
	username, _ := utils.GetUsernameFromContext(c.Request.Context())
	return username
}
