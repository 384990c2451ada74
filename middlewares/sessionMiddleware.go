package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/utils"
)

const (
	SessionCookieName = "session"
	revokedSessionKey = "RevokedSession:"
)

// SessionMiddleware resolves the session cookie into the request context.
// A bad or revoked cookie is dropped and the request continues anonymous.
func SessionMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := utils.JwtValidate(token)
		if err != nil {
			ClearSessionCookie(c)
			c.Next()
			return
		}

		_, revoked, err := config.GetRedisValue(revokedSessionKey + claims.Id)
		if err != nil {
			config.LogError(logger, "middlewares", "SessionMiddleware", "checking revoked session", claims.Id, err)
		}
		if revoked {
			ClearSessionCookie(c)
			c.Next()
			return
		}

		ctx := utils.SetSessionIdInContext(c.Request.Context(), claims.Id)
		ctx = utils.SetUserIdInContext(ctx, claims.ID)
		ctx = utils.SetUsernameInContext(ctx, claims.Username)
		ctx = utils.SetRoleInContext(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(utils.SessionLifespan().Seconds()), "/", "",
		config.GetEnvBool("SESSION_COOKIE_SECURE", false), true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", config.GetEnvBool("SESSION_COOKIE_SECURE", false), true)
}

// RevokeSession blacklists the current session id until the token would have expired anyway.
func RevokeSession(c *gin.Context) error {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil
	}
	claims, err := utils.JwtValidate(token)
	if err != nil {
		return nil
	}
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}
	return config.SetRedisValue(revokedSessionKey+claims.Id, claims.Username, ttl)
}
