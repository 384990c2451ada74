package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/middlewares"
	"github.com/verdipos/verdi_backend/models"
	"github.com/verdipos/verdi_backend/utils"
)

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

func settingsPageHandler(c *gin.Context) {
	renderPage(c, http.StatusOK, "settings.html", gin.H{"Title": "Settings"})
}

// saveSettingsHandler stores an uploaded logo when one is posted, otherwise the typed logo_path.
func saveSettingsHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logoPath := strings.TrimSpace(c.PostForm("logo_path"))

		if fileHeader, err := c.FormFile("logo"); err == nil && fileHeader.Size > 0 {
			url, err := storeLogo(c, fileHeader.Header.Get("Content-Type"), fileHeader.Size, func() (io.ReadCloser, error) {
				return fileHeader.Open()
			})
			if err != nil {
				var uploadErr *logoUploadError
				if errors.As(err, &uploadErr) {
					redirectWithFlash(c, "/settings", middlewares.FlashError, uploadErr.Error())
					return
				}
				config.LogError(logger, "uploads.go", "saveSettingsHandler", "storeLogo", fileHeader.Filename, err)
				redirectWithFlash(c, "/settings", middlewares.FlashError, "could not save the logo")
				return
			}
			logoPath = url
		}

		if err := models.SetSetting(ctx, models.SettingLogoPath, logoPath); err != nil {
			renderServerError(c, "saveSettingsHandler", err)
			return
		}
		redirectWithFlash(c, "/settings", middlewares.FlashSuccess, "Settings saved")
	}
}

type logoUploadError struct {
	msg string
}

func (e *logoUploadError) Error() string {
	return e.msg
}

func storeLogo(c *gin.Context, mimeType string, size int64, open func() (io.ReadCloser, error)) (string, error) {
	if size > utils.MaxLogoSizeBytes {
		return "", &logoUploadError{msg: "file size exceeds 5MB limit"}
	}
	if mimeType != "" && !imageMimeTypes[mimeType] {
		return "", &logoUploadError{msg: "unsupported image type"}
	}

	file, err := open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, utils.MaxLogoSizeBytes+1))
	if err != nil {
		return "", err
	}

	resized, err := utils.ResizeLogo(data)
	if err != nil {
		return "", &logoUploadError{msg: "could not read the image: " + err.Error()}
	}
	objectKey := fmt.Sprintf("uploads/logo-%s.png", uuid.NewString())
	return utils.SaveObject(c.Request.Context(), objectKey, resized, "image/png")
}
