// Package lock provides the cross-process mutual exclusion used by the
// registry store: an advisory file lock for a single host and a Redis lock
// for desks on several hosts sharing one registry.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Locker is the interface for a non-blocking lock.
// Implementations are not safe for concurrent use; callers serialize access
// in-process before taking the cross-process lock.
type Locker interface {
	// TryAcquire tries to take the lock once. Returns true if successful.
	TryAcquire(ctx context.Context) (bool, error)
	// Release releases the lock if we still own it.
	Release(ctx context.Context) error
}

// ErrTimeout is returned when the lock stays held by someone else for the
// whole wait period.
var ErrTimeout = errors.New("timed out acquiring store lock")

// Defaults used when Acquire is given a non-positive timeout.
const (
	DefaultTimeout = 30 * time.Second
	RetryInterval  = 25 * time.Millisecond
)

// Acquire polls l until it is taken, ctx is done or timeout elapses.
func Acquire(ctx context.Context, l Locker, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.TryAcquire(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return fmt.Errorf("%w after %s", ErrTimeout, timeout)
		case <-ticker.C:
		}
	}
}
