package utils

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/verdipos/verdi_backend/config"
)

const (
	StorageProviderLocal = "local"
	StorageProviderGCS   = "gcs"
)

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderLocal
	}
	return provider
}

// GetStaticDir is the on-disk root served under /static.
func GetStaticDir() string {
	return config.GetEnv("STATIC_DIR", "static")
}

// SaveObject stores data under objectKey with the configured provider and returns its public URL.
func SaveObject(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	if GetStorageProvider() == StorageProviderGCS {
		if err := UploadBytesToGCS(ctx, objectKey, data, contentType); err != nil {
			return "", err
		}
		return BuildObjectAccessURL(objectKey), nil
	}

	fullPath := filepath.Join(GetStaticDir(), filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", err
	}
	return BuildObjectAccessURL(objectKey), nil
}

// DeleteObject removes an object written by SaveObject. A missing object is not an error.
func DeleteObject(ctx context.Context, objectKey string) error {
	if GetStorageProvider() == StorageProviderGCS {
		return DeleteFromGCS(ctx, objectKey)
	}
	err := os.Remove(filepath.Join(GetStaticDir(), filepath.FromSlash(objectKey)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
