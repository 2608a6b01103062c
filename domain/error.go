// Package domain defines error types for the inventory system.
package domain

import (
	"errors"
	"fmt"
)

// ErrEmptySale is returned when a sale without items is appended to the ledger.
var ErrEmptySale = errors.New("sale has no items")

// ErrDuplicateSale is returned when a sale ID is already in the ledger.
var ErrDuplicateSale = errors.New("sale already recorded")

// ProductNotFoundError is returned when no product matches the lookup key
// (an id, a barcode or a name).
type ProductNotFoundError struct {
	Key string
}

// Error implements the error interface for ProductNotFoundError
func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.Key)
}

// Is allows proper error type checking with errors.Is()
func (e *ProductNotFoundError) Is(target error) bool {
	_, ok := target.(*ProductNotFoundError)
	return ok
}

// ValidationError is returned when a field fails validation. It is always
// user-correctable: the caller may ask for the value again.
type ValidationError struct {
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s (value=%v)", e.Field, e.Reason, e.Value)
}

// Is allows proper error type checking with errors.Is()
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// DuplicateProductError is returned when inserting a product whose id or
// barcode is already in the inventory.
type DuplicateProductError struct {
	Field string
	Key   string
}

// Error implements the error interface for DuplicateProductError
func (e *DuplicateProductError) Error() string {
	return fmt.Sprintf("duplicate product: %s=%s already exists", e.Field, e.Key)
}

// Is allows proper error type checking with errors.Is()
func (e *DuplicateProductError) Is(target error) bool {
	_, ok := target.(*DuplicateProductError)
	return ok
}

// Helper functions for creating errors with context

// NewProductNotFoundError creates a new ProductNotFoundError
func NewProductNotFoundError(key string) error {
	return &ProductNotFoundError{Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, reason string, value interface{}) error {
	return &ValidationError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// NewDuplicateProductError creates a new DuplicateProductError
func NewDuplicateProductError(field, key string) error {
	return &DuplicateProductError{Field: field, Key: key}
}

// Type assertion helpers for use with errors.As()

// IsProductNotFoundError checks if an error is a ProductNotFoundError
func IsProductNotFoundError(err error) bool {
	var pnf *ProductNotFoundError
	return errors.As(err, &pnf)
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDuplicateProductError checks if an error is a DuplicateProductError
func IsDuplicateProductError(err error) bool {
	var dpe *DuplicateProductError
	return errors.As(err, &dpe)
}
