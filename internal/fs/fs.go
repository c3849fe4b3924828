// Package fs provides the filesystem abstraction deck storage runs on.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the store needs
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os]
//   - [Chaos]: test wrapper that injects random failures
//
// Example usage:
//
//	fsys := fs.NewReal()
//	lock, err := fsys.Lock("decks/german.csv")
//	if err != nil {
//	    return err
//	}
//	defer lock.Close()
//
//	data, err := fsys.ReadFile("decks/german.csv")
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This interface is satisfied by [os.File] and can be passed to anything
// that accepts an [io.Reader] or [io.Closer].
type File interface {
	io.ReadCloser
}

// Locker represents a held file lock.
// Call [Locker.Close] to release the lock.
//
// Example:
//
//	lock, err := fsys.Lock("decks/german.csv")
//	if err != nil {
//	    return err // lock contention or timeout
//	}
//	defer lock.Close() // always release
type Locker interface {
	io.Closer
}

// FS defines the filesystem operations used to read, write and manage deck
// files.
//
// All methods mirror their [os] package equivalents so implementations can
// be swapped for fault injection in tests.
type FS interface {
	// Open opens a file for reading. See [os.Open].
	Open(path string) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces the file at path with data.
	// Uses a temp file + rename so readers never see a partial deck.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// ReadDir reads a directory and returns its entries sorted by name.
	// See [os.ReadDir].
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory. See [os.Remove].
	Remove(path string) error

	// Rename moves/renames a file. See [os.Rename].
	Rename(oldpath, newpath string) error

	// Lock acquires an exclusive lock for path.
	// Blocks until the lock is acquired or returns an error on timeout.
	Lock(path string) (Locker, error)
}

// Compile-time interface check.
var _ File = (*os.File)(nil)
