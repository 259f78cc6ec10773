package utils

import (
	"context"
	"reflect"

	"github.com/mmdatafocus/rentals_backend/config"
)

// check if id exists, using ctx's landlord_id in WHERE, return RecordNotFound Error
func ValidateResourceId[T any](ctx context.Context, landlordId string, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, landlordId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

// check no other record holds the given column value, except the record being edited
func ValidateUnique[T any](ctx context.Context, landlordId string, column string, value interface{}, exceptId interface{}) error {
	var count int64
	var err error
	if reflect.ValueOf(exceptId).IsZero() {
		count, err = ResourceCountWhere[T](ctx, landlordId, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, landlordId, column+" = ? AND NOT id = ?", value, exceptId)
	}

	if err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError(FieldId(column), ViolationConflict, "duplicate "+column)
	}
	return nil
}

// count records, using WHERE landlord_id = ? AND $condition
// landlord_id can be blank for admin user
func ResourceCountWhere[T any](ctx context.Context, landlordId string, condition string, value ...interface{}) (int64, error) {
	var model T

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&model)
	var count int64
	if landlordId != "" {
		dbCtx.Where("landlord_id = ?", landlordId)
	}
	dbCtx.Where(condition, value...)
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
