package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/verdipos/verdi_backend/utils"
)

// formDecimal reads an optional money field; blank means zero.
func formDecimal(c *gin.Context, key string) (decimal.Decimal, error) {
	value := strings.TrimSpace(c.PostForm(key))
	if value == "" {
		return decimal.Zero, nil
	}
	return utils.ParseDecimal(value)
}

// formDecimalPtr is nil when the field is missing or blank.
func formDecimalPtr(c *gin.Context, key string) (*decimal.Decimal, error) {
	value, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := utils.ParseDecimal(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formInt(c *gin.Context, key string) (int, error) {
	value := strings.TrimSpace(c.PostForm(key))
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

func formIntPtr(c *gin.Context, key string) (*int, error) {
	value, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func formStringPtr(c *gin.Context, key string) *string {
	value, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

// paramId parses the :id path segment.
func paramId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func jsonError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func jsonNotFound(c *gin.Context) {
	jsonError(c, http.StatusNotFound, "not found")
}

// formPresentPtr is nil only when the field was not posted; a blank value clears.
func formPresentPtr(c *gin.Context, key string) *string {
	value, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &value
}
