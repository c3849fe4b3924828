package store

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Ext is the file extension of deck files.
const Ext = ".csv"

// NormalizeName trims surrounding whitespace and an optional .csv suffix.
//
// Names must be usable as a single file name: no path separators, no NUL
// bytes, and no leading dot (those are reserved for bookkeeping such as the
// lock directory).
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, Ext)

	if name == "" {
		return "", ErrDeckNameRequired
	}

	if strings.ContainsAny(name, "/\\\x00") || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidDeckName, name)
	}

	return name, nil
}

// FileName returns the file name for a normalized deck name.
func FileName(name string) string {
	return name + Ext
}

// Path returns the path of the deck file for name inside dir.
func Path(dir, name string) (string, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, FileName(normalized)), nil
}
