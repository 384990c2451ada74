package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func init() {
	// Load env from .env, a missing file is fine.
	godotenv.Load()
}

// GetEnv returns the trimmed value of key or def when unset.
func GetEnv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func IsProduction() bool {
	return strings.EqualFold(GetEnv("GO_ENV", ""), "production")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
