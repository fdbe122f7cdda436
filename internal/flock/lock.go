package flock

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mrz1836/kodarch/internal/constants"
	"github.com/mrz1836/kodarch/internal/ctxutil"
	kerrors "github.com/mrz1836/kodarch/internal/errors"
)

const lockFilePerm = 0o600

// Lock is a held exclusive lock on a file.
type Lock struct {
	file *os.File
	path string
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire opens (creating if needed) the lock file at path and takes an exclusive
// lock, retrying until timeout or context cancellation.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFilePerm) //#nosec G304 -- path is constructed by callers from validated names
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		if err := TryLock(f.Fd()); err == nil {
			return &Lock{file: f, path: path}, nil
		}

		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("failed to acquire lock %s: %w", path, kerrors.ErrLockTimeout)
		}

		if err := ctxutil.Sleep(ctx, constants.LockRetryInterval); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
}

// Release unlocks and closes the lock file. The file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}

	if err := Unlock(l.file.Fd()); err != nil {
		_ = l.file.Close()
		l.file = nil
		return fmt.Errorf("failed to release lock: %w", err)
	}

	err := l.file.Close()
	l.file = nil
	return err
}
