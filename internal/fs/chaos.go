package fs

import (
	"io/fs"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	OpenFailRate    float64 // Fail Open
	ReadFailRate    float64 // Fail ReadFile
	WriteFailRate   float64 // Fail WriteFileAtomic before anything is written
	ReadDirFailRate float64 // Fail ReadDir
	MkdirFailRate   float64 // Fail MkdirAll
	StatFailRate    float64 // Fail Exists
	RemoveFailRate  float64 // Fail Remove
	RenameFailRate  float64 // Fail Rename
	LockFailRate    float64 // Fail Lock acquisition
}

// DefaultChaosConfig returns a config with reasonable fault rates for testing.
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{
		OpenFailRate:    0.05,
		ReadFailRate:    0.05,
		WriteFailRate:   0.1,
		ReadDirFailRate: 0.05,
		MkdirFailRate:   0.02,
		StatFailRate:    0.02,
		RemoveFailRate:  0.1,
		RenameFailRate:  0.1,
		LockFailRate:    0.05,
	}
}

// ChaosMode controls how Chaos behaves.
type ChaosMode uint8

const (
	// ChaosModePassthrough behaves like the underlying FS.
	ChaosModePassthrough ChaosMode = iota

	// ChaosModeInject enables fault-rate injection.
	ChaosModeInject
)

// Chaos wraps an [FS] and injects random failures for testing.
//
// A fault is always injected before the wrapped FS is called, so a failed
// operation has no effect on disk. Injected errors are *fs.PathError values
// carrying a syscall.Errno, like real OS errors; use [IsInjected] to tell
// them apart.
type Chaos struct {
	fs     FS
	config ChaosConfig
	mode   atomic.Uint32

	mu  sync.Mutex
	rng *rand.Rand

	faults atomic.Int64
}

// NewChaos creates a new Chaos filesystem wrapping the given [FS].
// The seed controls random fault injection for reproducibility.
// A new Chaos starts in [ChaosModePassthrough].
func NewChaos(fsys FS, seed int64, config ChaosConfig) *Chaos {
	return &Chaos{
		fs:     fsys,
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// SetMode updates Chaos behavior. Safe to call concurrently with
// filesystem operations.
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// TotalFaults returns how many faults were injected so far.
func (c *Chaos) TotalFaults() int64 {
	return c.faults.Load()
}

func (c *Chaos) Open(path string) (File, error) {
	if err := c.fault("open", path, c.config.OpenFailRate, syscall.EIO, syscall.EACCES, syscall.EMFILE); err != nil {
		return nil, err
	}

	return c.fs.Open(path)
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if err := c.fault("read", path, c.config.ReadFailRate, syscall.EIO, syscall.EACCES); err != nil {
		return nil, err
	}

	return c.fs.ReadFile(path)
}

func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := c.fault("write", path, c.config.WriteFailRate, syscall.EIO, syscall.ENOSPC, syscall.EROFS); err != nil {
		return err
	}

	return c.fs.WriteFileAtomic(path, data, perm)
}

func (c *Chaos) ReadDir(path string) ([]os.DirEntry, error) {
	if err := c.fault("readdirent", path, c.config.ReadDirFailRate, syscall.EIO, syscall.EACCES); err != nil {
		return nil, err
	}

	return c.fs.ReadDir(path)
}

func (c *Chaos) MkdirAll(path string, perm os.FileMode) error {
	if err := c.fault("mkdir", path, c.config.MkdirFailRate, syscall.EACCES, syscall.ENOSPC); err != nil {
		return err
	}

	return c.fs.MkdirAll(path, perm)
}

func (c *Chaos) Exists(path string) (bool, error) {
	if err := c.fault("stat", path, c.config.StatFailRate, syscall.EIO, syscall.EACCES); err != nil {
		return false, err
	}

	return c.fs.Exists(path)
}

func (c *Chaos) Remove(path string) error {
	if err := c.fault("remove", path, c.config.RemoveFailRate, syscall.EIO, syscall.EACCES, syscall.EROFS); err != nil {
		return err
	}

	return c.fs.Remove(path)
}

func (c *Chaos) Rename(oldpath, newpath string) error {
	if err := c.fault("rename", oldpath, c.config.RenameFailRate, syscall.EIO, syscall.EACCES, syscall.EXDEV); err != nil {
		return err
	}

	return c.fs.Rename(oldpath, newpath)
}

func (c *Chaos) Lock(path string) (Locker, error) {
	if err := c.fault("flock", path, c.config.LockFailRate, syscall.EIO, syscall.ENOLCK); err != nil {
		return nil, err
	}

	return c.fs.Lock(path)
}

// fault returns an injected error with probability rate, or nil.
func (c *Chaos) fault(op, path string, rate float64, errnos ...syscall.Errno) error {
	if ChaosMode(c.mode.Load()) != ChaosModeInject {
		return nil
	}

	c.mu.Lock()
	hit := c.rng.Float64() < rate
	errno := errnos[c.rng.Intn(len(errnos))]
	c.mu.Unlock()

	if !hit {
		return nil
	}

	c.faults.Add(1)

	return pathError(op, path, errno)
}

// pathError creates an *fs.PathError with the given operation, path, and errno.
// This matches what the real OS returns, so errors.Is() works correctly.
func pathError(op, path string, errno syscall.Errno) error {
	pe := &fs.PathError{Op: op, Path: path, Err: errno}
	markInjectedPathError(pe)

	return pe
}

// Compile-time interface check.
var _ FS = (*Chaos)(nil)
