// Package util provides utility functions for the inventory system.
package util

import "github.com/google/uuid"

// NewID returns a RFC4122-compliant v4 UUID string.
func NewID() string {
	return uuid.NewString()
}

// IsID reports whether s parses as a UUID.
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
