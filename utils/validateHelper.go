package utils

import (
	"context"
	"errors"
	"reflect"

	"gorm.io/gorm"
)

// check if id exists in the given handle (db or open tx), return RecordNotFound Error
func ValidateResourceId[T any](ctx context.Context, tx *gorm.DB, id interface{}) error {
	count, err := ResourceCountWhere[T](ctx, tx, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}

func ValidateUnique[T any](ctx context.Context, tx *gorm.DB, column string, value interface{}, exceptId interface{}) error {
	var count int64
	var err error
	if exceptId == nil || reflect.ValueOf(exceptId).IsZero() {
		count, err = ResourceCountWhere[T](ctx, tx, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, tx, column+" = ? AND NOT id = ?", value, exceptId)
	}

	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate " + column)
	}
	return nil
}

// count records matching condition
func ResourceCountWhere[T any](ctx context.Context, tx *gorm.DB, condition string, value ...interface{}) (int64, error) {
	var model T
	var count int64
	if err := tx.WithContext(ctx).Model(&model).Where(condition, value...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
