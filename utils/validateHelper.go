package utils

import (
	"context"
	"errors"
	"reflect"

	"github.com/rentdesk/rentroll_backend/config"
)

// check if id exists, using ctx's owner_id in WHERE, return RecordNotFound error
func ValidateResourceId[T any](ctx context.Context, ownerId string, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, ownerId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

func ValidateUnique[T any](ctx context.Context, ownerId string, column string, value interface{}, exceptId interface{}) error {
	var count int64
	var err error
	if reflect.ValueOf(exceptId).IsZero() {
		count, err = ResourceCountWhere[T](ctx, ownerId, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, ownerId, column+" = ? AND NOT id = ?", value, exceptId)
	}

	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate " + column)
	}
	return nil
}

// count records, using WHERE owner_id = ? AND $condition
func ResourceCountWhere[T any](ctx context.Context, ownerId string, condition string, value ...interface{}) (int64, error) {
	var model T
	var count int64

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&model)
	if ownerId != "" {
		dbCtx = dbCtx.Where("owner_id = ?", ownerId)
	}
	if err := dbCtx.Where(condition, value...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
