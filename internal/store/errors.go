package store

import "errors"

// Store errors.
var (
	// ErrDeckNameRequired is returned when a deck name is empty.
	ErrDeckNameRequired = errors.New("deck name is required")

	// ErrInvalidDeckName is returned when a deck name cannot be used as a file name.
	ErrInvalidDeckName = errors.New("invalid deck name")

	// ErrDeckNotFound is returned when no file exists for a deck name.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDeckExists is returned when creating or renaming onto an existing deck.
	ErrDeckExists = errors.New("deck already exists")
)
