package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}

// FieldId identifies the form field an input error belongs to, so the UI
// layer can highlight the offending field without parsing message text.
type FieldId string

const (
	FieldName       FieldId = "name"
	FieldEmail      FieldId = "email"
	FieldPhone      FieldId = "phone"
	FieldRent       FieldId = "rent"
	FieldDeposit    FieldId = "deposit"
	FieldAmount     FieldId = "amount"
	FieldUnitNumber FieldId = "unit_number"
	FieldMoveIn     FieldId = "move_in_date"
	FieldLeaseEnd   FieldId = "lease_end_date"
	FieldTenant     FieldId = "tenant"
)

type ViolationKind string

const (
	ViolationRequired  ViolationKind = "required"
	ViolationFormat    ViolationKind = "format"
	ViolationRange     ViolationKind = "range"
	ViolationDateOrder ViolationKind = "date_order"
	ViolationConflict  ViolationKind = "conflict"
)

// ValidationError is a user-correctable input problem. It is rendered to the
// user verbatim at the form boundary and never logged as a fault.
type ValidationError struct {
	Field   FieldId       `json:"field"`
	Kind    ViolationKind `json:"kind"`
	Message string        `json:"message"`
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(field FieldId, kind ViolationKind, message string) error {
	return &ValidationError{Field: field, Kind: kind, Message: message}
}

// AsValidationError reports whether err (or anything it wraps) is a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsConflict reports whether err is an occupancy/assignment conflict.
func IsConflict(err error) bool {
	ve, ok := AsValidationError(err)
	return ok && ve.Kind == ViolationConflict
}

// StoreError wraps an opaque failure from a backing collaborator (DB, redis).
// It is logged and shown as a generic message; never retried automatically.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
