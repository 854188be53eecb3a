package models

import "errors"

var (
	ErrNoRecord          = errors.New("models: no matching record found")
	ErrDuplicateEmail    = errors.New("models: duplicate email")
	ErrInvalidAmount     = errors.New("models: amount must not be negative")
	ErrInvalidStatus     = errors.New("models: unknown status")
	ErrInvalidType       = errors.New("models: unknown type")
	ErrInvalidTransition = errors.New("models: invalid status transition")
	ErrInvalidDueDate    = errors.New("models: due date is before issue date")
)
