package files

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the scratch directory while a CLI run is in flight.
const LockFileName = "whisper-offline.lock"

// RunLock is an advisory cross-process lock guarding one in-flight run.
type RunLock struct {
	lock *flock.Flock
}

// NewRunLock prepares a lock file in dir without acquiring it.
func NewRunLock(dir string) *RunLock {
	return &RunLock{lock: flock.New(filepath.Join(dir, LockFileName))}
}

// TryAcquire takes the lock without waiting. It returns false when another
// process already holds it.
func (l *RunLock) TryAcquire() (bool, error) {
	ok, err := l.lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquire run lock %s: %w", l.lock.Path(), err)
	}
	return ok, nil
}

// Release drops the lock. Safe to call when not held.
func (l *RunLock) Release() error {
	return l.lock.Unlock()
}

// Path returns the lock file location.
func (l *RunLock) Path() string {
	return l.lock.Path()
}
