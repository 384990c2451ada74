package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/middlewares"
	"github.com/verdipos/verdi_backend/models"
	"github.com/verdipos/verdi_backend/utils"
)

const (
	defaultPort         = "5000"
	correlationIdHeader = "X-Correlation-ID"
	shutdownTimeout     = 10 * time.Second
)

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func customNotFoundHandler(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
		return
	}
	renderNotFound(c)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func correlationIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(correlationIdHeader)
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Header(correlationIdHeader, cid)
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	// in production only the CORS_ALLOWED_ORIGINS allowlist, deny all when unset
	allowedOrigins := config.GetEnv("CORS_ALLOWED_ORIGINS", "")
	if config.IsProduction() {
		corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		if len(corsConfig.AllowOrigins) == 0 {
			corsConfig.AllowOrigins = []string{}
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", correlationIdHeader)
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", correlationIdHeader)
	if !corsConfig.AllowAllOrigins {
		corsConfig.AllowCredentials = true
	}
	return cors.New(corsConfig)
}

func setupRouter(logger *logrus.Logger) (*gin.Engine, error) {
	r := gin.New()

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(correlationIdMiddleware())
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}
	r.Use(corsMiddleware())

	// Optional rate limiting, redis backed.
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_PER_MINUTE=600
	if config.GetEnvBool("RATE_LIMIT_ENABLED", false) {
		if client := config.GetRedisDB(); client != nil {
			limit := int64(config.GetEnvInt("RATE_LIMIT_PER_MINUTE", 600))
			if limit <= 0 {
				limit = 600
			}
			rateLimiter := NewRateLimiter(client, limit, time.Minute)
			r.Use(rateLimiter.RateLimitMiddleware)
		} else {
			logger.WithFields(logrus.Fields{"field": "setupRouter"}).Warn("RATE_LIMIT_ENABLED without redis; rate limiting disabled")
		}
	}

	r.Use(middlewares.SessionMiddleware(logger))
	r.Use(middlewares.FlashMiddleware())
	r.Use(middlewares.LoaderMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.GET("/healthz", healthHandler)
	r.Static("/static", utils.GetStaticDir())
	r.StaticFS("/assets", assetsFileSystem())

	r.GET("/login", loginPageHandler)
	r.POST("/login", loginHandler(logger))
	r.GET("/logout", logoutHandler(logger))

	auth := r.Group("/", middlewares.RequireLogin())
	auth.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/pos") })

	auth.GET("/products", productsPageHandler)
	auth.POST("/products", createProductHandler)
	auth.POST("/products/:id/update", updateProductHandler)
	auth.POST("/products/:id/delete", deleteProductHandler)
	auth.GET("/inventory", inventoryPageHandler)
	auth.GET("/print-barcodes", printBarcodesPageHandler)

	auth.GET("/pos", posPageHandler)
	auth.GET("/api/products/search", searchProductsHandler)
	auth.POST("/api/sale", createSaleHandler(logger))
	auth.GET("/api/sale/:id", saleDetailHandler)
	auth.GET("/api/barcode-image/:code", barcodeImageHandler)
	auth.GET("/invoice/:id", invoicePageHandler)
	auth.GET("/sales", salesPageHandler)

	auth.GET("/customers", customersPageHandler)
	auth.POST("/customers", createCustomerHandler)
	auth.GET("/customers/export", exportCustomersHandler)

	auth.GET("/suppliers", suppliersPageHandler)
	auth.POST("/suppliers", createSupplierHandler)
	auth.POST("/suppliers/:id/update", updateSupplierHandler)
	auth.POST("/suppliers/:id/delete", deleteSupplierHandler)

	auth.GET("/supplier-invoices", supplierInvoicesPageHandler)
	auth.POST("/supplier-invoices", createSupplierInvoiceHandler)
	auth.GET("/supplier-invoice/:id", supplierInvoicePageHandler)

	auth.GET("/returns", returnsPageHandler)
	auth.POST("/returns", createReturnHandler)

	auth.GET("/shifts", shiftsPageHandler)
	auth.POST("/shifts", shiftActionHandler)
	auth.POST("/shifts/open", openShiftHandler)
	auth.POST("/shifts/:id/close", closeShiftHandler)

	auth.GET("/reports", reportsPageHandler)
	auth.GET("/reports/export", exportReportHandler)

	auth.GET("/settings", settingsPageHandler)
	auth.POST("/settings", saveSettingsHandler(logger))

	r.NoRoute(customNotFoundHandler)
	return r, nil
}

func main() {
	port := config.GetEnv("API_PORT_2", "")
	if port == "" {
		port = config.GetEnv("PORT", defaultPort)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	if !config.GetEnvBool("SKIP_MIGRATIONS", false) {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}
	if _, err := models.EnsureDefaultAdmin(sigCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "EnsureDefaultAdmin"}).Fatal(err.Error())
	}

	r, err := setupRouter(logger)
	if err != nil {
		logger.WithFields(logrus.Fields{"field": "setupRouter"}).Fatal(err.Error())
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			config.RequestLogger(c.Request.Context(), logger).WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
			}).Error(c.Errors.String())
		}
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// RateLimitMiddleware counts requests per client IP in a fixed window.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := "RateLimit:" + c.ClientIP()

	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		// redis trouble must not take the till down
		_ = c.Error(err)
		c.Next()
		return
	}
	if count == 1 {
		if err := rl.client.Expire(c.Request.Context(), key, rl.window).Err(); err != nil {
			_ = c.Error(err)
		}
	}

	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
