package lock

import (
	"context"
	"fmt"

	"github.com/gofrs/flock"
)

// FileLock is an advisory lock on a marker file next to the registry.
// The marker holds no data and is left in place after Release.
type FileLock struct {
	fl *flock.Flock
}

// NewFileLock creates a lock on path. The file is created on first use.
func NewFileLock(path string) *FileLock {
	return &FileLock{fl: flock.New(path)}
}

// Path returns the marker file path.
func (l *FileLock) Path() string {
	return l.fl.Path()
}

// TryAcquire takes the lock if no other handle holds it.
func (l *FileLock) TryAcquire(ctx context.Context) (bool, error) {
	ok, err := l.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("lock %s: %w", l.fl.Path(), err)
	}
	return ok, nil
}

// Release unlocks the marker file.
func (l *FileLock) Release(ctx context.Context) error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", l.fl.Path(), err)
	}
	return nil
}
