package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/middlewares"
	"github.com/verdipos/verdi_backend/models"
	"github.com/verdipos/verdi_backend/utils"
)

func loginPageHandler(c *gin.Context) {
	if _, ok := utils.GetUserIdFromContext(c.Request.Context()); ok {
		c.Redirect(http.StatusFound, "/pos")
		return
	}
	renderPage(c, http.StatusOK, "login.html", gin.H{"Title": "Login"})
}

func loginHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user, err := models.Login(ctx, c.PostForm("username"), c.PostForm("password"))
		if err != nil {
			if !errors.Is(err, models.ErrInvalidCredentials) {
				config.LogError(logger, "server", "loginHandler", "models.Login", c.PostForm("username"), err)
			}
			redirectWithFlash(c, "/login", middlewares.FlashError, models.ErrInvalidCredentials.Error())
			return
		}

		token, sessionId, err := utils.JwtGenerate(user.ID, user.Username, string(user.Role))
		if err != nil {
			config.LogError(logger, "server", "loginHandler", "utils.JwtGenerate", user.Username, err)
			redirectWithFlash(c, "/login", middlewares.FlashError, "could not start a session")
			return
		}
		middlewares.SetSessionCookie(c, token)
		logger.WithFields(logrus.Fields{
			"field":      "loginHandler",
			"username":   user.Username,
			"session_id": sessionId,
		}).Info("user logged in")
		c.Redirect(http.StatusFound, "/pos")
	}
}

func logoutHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := middlewares.RevokeSession(c); err != nil {
			config.LogError(logger, "server", "logoutHandler", "middlewares.RevokeSession", nil, err)
		}
		middlewares.ClearSessionCookie(c)
		redirectWithFlash(c, "/login", middlewares.FlashInfo, "You have been logged out.")
	}
}
