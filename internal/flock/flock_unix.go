//go:build unix

package flock

import "golang.org/x/sys/unix"

// TryLock takes an exclusive flock on fd. It fails with EWOULDBLOCK instead
// of waiting when another descriptor holds the lock.
func TryLock(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_EX|unix.LOCK_NB)
}

// Unlock drops the flock held on fd.
func Unlock(fd uintptr) error {
	return unix.Flock(int(fd), unix.LOCK_UN)
}
