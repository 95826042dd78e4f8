// Package flock provides advisory file locks scoped to a single path.
//
// Exclusive and Unlock are thin platform wrappers (flock(2) on Unix,
// LockFileEx on Windows). Acquire layers a retry loop with a timeout on top:
//
//	lock, err := flock.Acquire(ctx, metadataPath+".lock", 5*time.Second)
//	if err != nil {
//	    return err // wraps errors.ErrLockTimeout on timeout
//	}
//	defer func() { _ = lock.Release() }()
//
// Locks are advisory: they only exclude other agentspace processes.
package flock
