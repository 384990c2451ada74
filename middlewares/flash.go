package middlewares

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookieName = "flash"
	flashContextKey = "flash"

	FlashSuccess = "success"
	FlashError   = "danger"
	FlashInfo    = "info"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// SetFlash queues a message for the next rendered page.
func SetFlash(c *gin.Context, category string, message string) {
	data, err := json.Marshal(Flash{Category: category, Message: message})
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, base64.RawURLEncoding.EncodeToString(data), 60, "/", "", false, true)
}

// FlashMiddleware consumes the pending flash cookie so it is shown exactly once.
func FlashMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(flashCookieName); err == nil && raw != "" {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(flashCookieName, "", -1, "/", "", false, true)
			if data, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
				var flash Flash
				if json.Unmarshal(data, &flash) == nil && flash.Message != "" {
					c.Set(flashContextKey, &flash)
				}
			}
		}
		c.Next()
	}
}

func GetFlash(c *gin.Context) *Flash {
	if v, ok := c.Get(flashContextKey); ok {
		if flash, ok := v.(*Flash); ok {
			return flash
		}
	}
	return nil
}
