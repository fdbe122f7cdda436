//go:build windows

package flock

import "golang.org/x/sys/windows"

// The whole file is covered by locking a single byte at offset zero.
const (
	rangeLow  = 1
	rangeHigh = 0
)

// TryLock takes an exclusive lock on fd. It fails immediately when another
// handle holds the lock.
func TryLock(fd uintptr) error {
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(fd),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0, rangeLow, rangeHigh, ol)
}

// Unlock drops the lock held on fd.
func Unlock(fd uintptr) error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(fd), 0, rangeLow, rangeHigh, ol)
}
