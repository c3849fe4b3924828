// Package store manages a directory of CSV decks.
//
// Each deck is one <name>.csv file. Every mutation holds an exclusive lock
// on the deck file and replaces it atomically, so a deck on disk is always
// either the old or the new version.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calvinalkan/flashcard/internal/deck"
	"github.com/calvinalkan/flashcard/internal/fs"
	"github.com/calvinalkan/flashcard/internal/logging"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600

	importPrefix    = "Imported_"
	uniqueSuffixLen = 8
)

// Store reads and writes decks in a single directory.
type Store struct {
	fs  fs.FS
	dir string
	log *slog.Logger
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.log = logger
	}
}

// WithClock sets the time source used to name imported decks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns a store for the decks in dir. The directory is created on
// the first write.
func New(fsys fs.FS, dir string, opts ...Option) *Store {
	s := &Store{
		fs:  fsys,
		dir: filepath.Clean(dir),
		log: logging.Discard(),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Dir returns the deck directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for the deck name.
func (s *Store) Path(name string) (string, error) {
	return Path(s.dir, name)
}

// Exists reports whether a deck file exists for name.
func (s *Store) Exists(name string) (bool, error) {
	path, err := s.Path(name)
	if err != nil {
		return false, err
	}

	return s.fs.Exists(path)
}

// Entry describes one deck found by List.
// If the deck could not be read, Err is set and Cards is zero.
type Entry struct {
	Name  string
	Path  string
	Cards int
	Err   error
}

// List returns all decks sorted by name. A missing directory yields no
// decks. Unreadable deck files are reported through Entry.Err.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading deck dir: %w", err)
	}

	var decks []Entry

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileName := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(fileName, Ext) {
			continue
		}

		// Only list files a deck name resolves back to. " x .csv" or
		// "a.csv.csv" would show up under a name that loads another file.
		stem := strings.TrimSuffix(fileName, Ext)

		name, nameErr := NormalizeName(stem)
		if nameErr != nil || name != stem {
			continue
		}

		path := filepath.Join(s.dir, fileName)
		item := Entry{Name: name, Path: path}

		data, readErr := s.fs.ReadFile(path)
		if readErr != nil {
			item.Err = readErr
		} else {
			item.Cards = deck.Parse(string(data)).Len()
		}

		decks = append(decks, item)
	}

	slices.SortFunc(decks, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})

	return decks, nil
}

// Create creates an empty deck and returns its normalized name.
func (s *Store) Create(name string) (string, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return "", err
	}

	err = s.withLock(name, func(path string) error {
		exists, existsErr := s.fs.Exists(path)
		if existsErr != nil {
			return existsErr
		}

		if exists {
			return fmt.Errorf("%w: %s", ErrDeckExists, name)
		}

		return s.write(path, nil)
	})
	if err != nil {
		return "", err
	}

	s.log.Debug("deck created", "deck", name)

	return name, nil
}

// Import copies the CSV content of src into a new deck and returns the
// deck name and the number of cards it holds.
//
// The bytes are stored as read. With an empty name the deck is called
// Imported_<unix millis>, with a random suffix if that name is taken.
func (s *Store) Import(ctx context.Context, src io.Reader, name string) (string, int, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", 0, fmt.Errorf("reading import source: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	generated := strings.TrimSpace(name) == ""
	if generated {
		name = importPrefix + strconv.FormatInt(s.now().UnixMilli(), 10)
	}

	name, err = NormalizeName(name)
	if err != nil {
		return "", 0, err
	}

	if generated {
		exists, existsErr := s.Exists(name)
		if existsErr != nil {
			return "", 0, existsErr
		}

		if exists {
			name += "_" + uuid.NewString()[:uniqueSuffixLen]
		}
	}

	err = s.withLock(name, func(path string) error {
		exists, existsErr := s.fs.Exists(path)
		if existsErr != nil {
			return existsErr
		}

		if exists {
			return fmt.Errorf("%w: %s", ErrDeckExists, name)
		}

		return s.write(path, data)
	})
	if err != nil {
		return "", 0, err
	}

	cards := deck.Parse(string(data)).Len()
	s.log.Debug("deck imported", "deck", name, "bytes", len(data), "cards", cards)

	return name, cards, nil
}

// Delete removes the deck file.
func (s *Store) Delete(name string) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}

	err = s.withLock(name, func(path string) error {
		removeErr := s.fs.Remove(path)
		if errors.Is(removeErr, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDeckNotFound, name)
		}

		return removeErr
	})
	if err != nil {
		return err
	}

	s.log.Debug("deck removed", "deck", name)

	return nil
}

// Rename moves the deck oldName to newName and returns the normalized new
// name. Renaming onto an existing deck fails.
func (s *Store) Rename(oldName, newName string) (string, error) {
	oldName, err := NormalizeName(oldName)
	if err != nil {
		return "", err
	}

	newName, err = NormalizeName(newName)
	if err != nil {
		return "", err
	}

	if oldName == newName {
		if _, err := s.Load(oldName); err != nil {
			return "", err
		}

		return newName, nil
	}

	// Lock in name order so concurrent renames in opposite directions
	// cannot deadlock.
	first, second := oldName, newName
	if second < first {
		first, second = second, first
	}

	err = s.withLock(first, func(string) error {
		return s.withLock(second, func(string) error {
			oldPath := filepath.Join(s.dir, FileName(oldName))
			newPath := filepath.Join(s.dir, FileName(newName))

			if err := s.mustExist(oldName, oldPath); err != nil {
				return err
			}

			exists, existsErr := s.fs.Exists(newPath)
			if existsErr != nil {
				return existsErr
			}

			if exists {
				return fmt.Errorf("%w: %s", ErrDeckExists, newName)
			}

			return s.fs.Rename(oldPath, newPath)
		})
	})
	if err != nil {
		return "", err
	}

	s.log.Debug("deck renamed", "from", oldName, "to", newName)

	return newName, nil
}

// Load reads and parses the deck. Malformed CSV never fails; only a
// missing or unreadable file does.
func (s *Store) Load(name string) (*deck.Deck, error) {
	name, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	return s.load(filepath.Join(s.dir, FileName(name)), name)
}

// Update loads the deck, applies fn and saves the result, all while
// holding the deck lock. If fn returns an error nothing is written.
func (s *Store) Update(name string, fn func(d *deck.Deck) error) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}

	return s.withLock(name, func(path string) error {
		d, loadErr := s.load(path, name)
		if loadErr != nil {
			return loadErr
		}

		if err := fn(d); err != nil {
			return err
		}

		return s.write(path, deck.Marshal(d.Cards()))
	})
}

func (s *Store) load(path, name string) (*deck.Deck, error) {
	file, err := s.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, name)
		}

		return nil, fmt.Errorf("opening deck: %w", err)
	}

	defer func() { _ = file.Close() }()

	d, err := deck.Decode(file)
	if err != nil {
		return nil, err
	}

	s.log.Debug("deck loaded", "deck", name, "path", path, "cards", d.Len())

	return d, nil
}

func (s *Store) mustExist(name, path string) error {
	exists, err := s.fs.Exists(path)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", ErrDeckNotFound, name)
	}

	return nil
}

func (s *Store) write(path string, data []byte) error {
	if err := s.fs.MkdirAll(s.dir, dirPerms); err != nil {
		return fmt.Errorf("creating deck dir: %w", err)
	}

	if err := s.fs.WriteFileAtomic(path, data, filePerms); err != nil {
		return fmt.Errorf("writing deck: %w", err)
	}

	s.log.Debug("deck saved", "path", path, "bytes", len(data))

	return nil
}

// withLock runs fn with the path of the normalized deck name while holding
// its lock.
func (s *Store) withLock(name string, fn func(path string) error) error {
	path := filepath.Join(s.dir, FileName(name))

	if err := s.fs.MkdirAll(s.dir, dirPerms); err != nil {
		return fmt.Errorf("creating deck dir: %w", err)
	}

	lock, err := s.fs.Lock(path)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}

	defer func() { _ = lock.Close() }()

	return fn(path)
}
