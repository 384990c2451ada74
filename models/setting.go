package models

import (
	"context"
	"errors"

	"github.com/verdipos/verdi_backend/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const SettingLogoPath = "logo_path"

type Setting struct {
	Key   string `gorm:"primaryKey;size:100" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

// GetSetting returns "" for a key that was never set.
func GetSetting(ctx context.Context, key string) (string, error) {
	db := config.GetDB()
	var setting Setting
	err := db.WithContext(ctx).Where(&Setting{Key: key}).Take(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func SetSetting(ctx context.Context, key string, value string) error {
	db := config.GetDB()
	setting := Setting{Key: key, Value: value}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&setting).Error
}
