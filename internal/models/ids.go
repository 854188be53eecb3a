package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh random UUID string.
func NewID() string {
	return uuid.NewString()
}

// NewShortID returns prefix followed by the first eight hex characters of a
// fresh UUID in upper case, e.g. INV-1A2B3C4D.
func NewShortID(prefix string) string {
	return prefix + strings.ToUpper(uuid.NewString()[:8])
}
