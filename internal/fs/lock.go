package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// LocksDirName is the subdirectory that holds lock files.
// Keeping them out of the deck directory itself keeps listings clean.
const LocksDirName = ".locks"

// ErrLockTimeout is returned when a lock cannot be acquired in time.
var ErrLockTimeout = errors.New("lock timeout")

var (
	// errWouldBlock means another holder has the lock right now.
	errWouldBlock = errors.New("lock would block")

	// errInodeMismatch means the lock file was replaced between open and
	// flock. Callers retry.
	errInodeMismatch = errors.New("inode mismatch")
)

const (
	lockPerms = 0o644
	dirPerms  = 0o755

	minLockBackoff = time.Millisecond
	maxLockBackoff = 25 * time.Millisecond
)

// Lock acquires an exclusive flock on <dir>/.locks/<base>.lock.
//
// It polls with a non-blocking flock and sleeps between attempts (1ms
// doubling up to 25ms) until the lock timeout expires, so a caller that
// gives up leaves nothing waiting in the kernel.
func (r *Real) Lock(path string) (Locker, error) {
	locksDir := filepath.Join(filepath.Dir(path), LocksDirName)
	lockPath := filepath.Join(locksDir, filepath.Base(path)+".lock")

	timeout := r.lockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}

	deadline := time.Now().Add(timeout)
	backoff := minLockBackoff

	for {
		lock, err := tryLock(locksDir, lockPath)
		if err == nil {
			return lock, nil
		}

		if !errors.Is(err, errWouldBlock) && !errors.Is(err, errInodeMismatch) {
			return nil, err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: %s (timed out after %s)", ErrLockTimeout, path, timeout)
		}

		time.Sleep(min(backoff, remaining))

		backoff = min(backoff*2, maxLockBackoff)
	}
}

// tryLock makes one non-blocking attempt at the lock file.
func tryLock(locksDir, lockPath string) (*realLock, error) {
	if err := os.MkdirAll(locksDir, dirPerms); err != nil {
		return nil, fmt.Errorf("creating locks dir: %w", err)
	}

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, lockPerms)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	fd := int(file.Fd())

	if err := flockRetryEINTR(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = file.Close()

		if errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN) {
			return nil, errWouldBlock
		}

		return nil, fmt.Errorf("flock: %w", err)
	}

	match, err := inodeMatchesPath(lockPath, fd)
	if err != nil || !match {
		_ = flockRetryEINTR(fd, unix.LOCK_UN)
		_ = file.Close()

		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("verifying lock file: %w", err)
		}

		return nil, errInodeMismatch
	}

	return &realLock{path: lockPath, file: file}, nil
}

// inodeMatchesPath reports whether fd still refers to the file at path.
//
// flock locks an inode, not a name. A holder removes the lock file on
// release, so a waiter may have opened the old inode while a newer one now
// sits at path; locking the old one would guard nothing.
func inodeMatchesPath(path string, fd int) (bool, error) {
	var openStat, pathStat unix.Stat_t

	if err := unix.Fstat(fd, &openStat); err != nil {
		return false, err
	}

	if err := unix.Stat(path, &pathStat); err != nil {
		return false, err
	}

	return openStat.Dev == pathStat.Dev && openStat.Ino == pathStat.Ino, nil
}

// flockRetryEINTR wraps flock, retrying when a signal interrupts the call.
// Retries are capped so a signal storm cannot spin forever.
func flockRetryEINTR(fd int, how int) error {
	const maxEINTRRetries = 10000

	var err error
	for range maxEINTRRetries {
		err = unix.Flock(fd, how)
		if err == nil || !errors.Is(err, unix.EINTR) {
			return err
		}
	}

	return err
}

// realLock holds an exclusive file lock.
type realLock struct {
	path string
	file *os.File
}

// Close releases the lock.
// Order matters: remove while holding the lock, then unlock, then close.
func (l *realLock) Close() error {
	if l.file == nil {
		return nil
	}

	_ = os.Remove(l.path)
	_ = flockRetryEINTR(int(l.file.Fd()), unix.LOCK_UN)
	err := l.file.Close()
	l.file = nil

	return err
}
