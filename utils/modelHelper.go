package utils

import (
	"context"
	"errors"

	"github.com/verdipos/verdi_backend/config"
	"gorm.io/gorm"
)

/* DB fetching */

// fetch model from db
// (may return RecordNotFound)
func FetchModel[T any](ctx context.Context, id int, associations ...string) (*T, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrorRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}

// fetch the latest models, newest first; limit <= 0 means all
func FetchLatestModels[T any](ctx context.Context, orderColumn string, limit int, associations ...string) ([]*T, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Order(orderColumn + " DESC").Order("id DESC")
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	if limit > 0 {
		dbCtx = dbCtx.Limit(limit)
	}
	var results []*T
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
