// Package flock provides cross-platform file locking for build sessions and records.
//
// TryLock and Unlock wrap the platform primitives (flock on Unix, LockFileEx
// on Windows). Acquire layers a context-aware retry loop on top:
//
//	lock, err := flock.Acquire(ctx, filepath.Join(dir, ".kodarch.lock"), 5*time.Second)
//	if err != nil {
//	    return err // errors.ErrLockTimeout when another process keeps it
//	}
//	defer func() { _ = lock.Release() }()
package flock
