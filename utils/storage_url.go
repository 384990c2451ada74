package utils

import (
	"os"
	"strings"
)

func BuildObjectAccessURL(objectKey string) string {
	if GetStorageProvider() != StorageProviderGCS {
		return "/static/" + strings.TrimLeft(objectKey, "/")
	}

	gcsURL := strings.TrimSpace(os.Getenv("GCS_URL"))
	if gcsURL == "" {
		gcsURL = "storage.googleapis.com"
	}
	gcsBucket := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
	return "https://" + gcsURL + "/" + gcsBucket + "/" + objectKey
}
