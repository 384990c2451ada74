package main

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/middlewares"
	"github.com/verdipos/verdi_backend/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed assets
var assetsFS embed.FS

const dateTimeLayout = "2006-01-02 15:04"

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(dateTimeLayout)
		},
		"datetimePtr": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format(dateTimeLayout)
		},
		"derefInt": func(v *int) int {
			if v == nil {
				return 0
			}
			return *v
		},
		"isNegative": func(d decimal.Decimal) bool {
			return d.IsNegative()
		},
		"lower": strings.ToLower,
	}
}

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "templates/*.html")
}

func assetsFileSystem() http.FileSystem {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// renderPage adds what every page shows (user, flash, shop identity, logo) and renders name.
func renderPage(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Username"] = middlewares.CurrentUsername(c)
	data["Flash"] = middlewares.GetFlash(c)
	data["Site"] = config.GetSiteInfo()

	logoPath, err := models.GetSetting(c.Request.Context(), models.SettingLogoPath)
	if err != nil {
		_ = c.Error(err)
	}
	data["LogoPath"] = logoPath
	c.HTML(status, name, data)
}

func redirectWithFlash(c *gin.Context, location string, category string, message string) {
	middlewares.SetFlash(c, category, message)
	c.Redirect(http.StatusFound, location)
}

func renderNotFound(c *gin.Context) {
	renderPage(c, http.StatusNotFound, "error.html", gin.H{"Title": "Not found", "Message": "The requested record was not found."})
}

// renderServerError logs err against the handler and shows a generic page.
func renderServerError(c *gin.Context, funcName string, err error) {
	config.RequestLogger(c.Request.Context(), config.GetLogger()).WithFields(logrus.Fields{
		"module":   "server",
		"funcName": funcName,
		"context":  c.Request.URL.Path,
	}).Error(err.Error())
	renderPage(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Error", "Message": "Something went wrong, please try again."})
}
