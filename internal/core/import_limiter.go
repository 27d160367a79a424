package core

// import_limiter.go bounds how many imports are parsed and merged at once.
//
// Imports serialize on the store lock anyway, but parsing a large workbook
// happens before the lock is taken. The limiter keeps a burst of uploads from
// holding many decoded workbooks in memory; waiters give up after maxWait
// with ErrTooManyImports.

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrTooManyImports is returned when every import slot stays occupied for
// the whole wait period. Clients should retry after a short delay.
var ErrTooManyImports = errors.New("too many imports in progress, please try again later")

// Limiter defaults applied when the configured values are not positive.
const (
	DefaultMaxConcurrentImports = 2
	DefaultImportMaxWait        = 30 * time.Second
)

// ImportLimiter is a counting semaphore with a bounded wait.
type ImportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active map[string]int // file name -> in-flight count
}

// NewImportLimiter allows at most maxConcurrent simultaneous imports.
func NewImportLimiter(maxConcurrent int, maxWait time.Duration) *ImportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}
	if maxWait <= 0 {
		maxWait = DefaultImportMaxWait
	}
	return &ImportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		active:  make(map[string]int),
	}
}

// Acquire waits for a slot. The caller must call Release(name) on success.
func (l *ImportLimiter) Acquire(ctx context.Context, name string) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active[name]++
		l.mu.Unlock()
		return nil
	case <-timer.C:
		return ErrTooManyImports
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees the slot taken by Acquire(name).
func (l *ImportLimiter) Release(name string) {
	l.mu.Lock()
	if l.active[name] <= 1 {
		delete(l.active, name)
	} else {
		l.active[name]--
	}
	l.mu.Unlock()

	<-l.slots
}

// Do runs fn while holding a slot.
func (l *ImportLimiter) Do(ctx context.Context, name string, fn func() error) error {
	if err := l.Acquire(ctx, name); err != nil {
		return err
	}
	defer l.Release(name)
	return fn()
}

// ActiveCount returns the number of imports currently holding a slot.
func (l *ImportLimiter) ActiveCount() int {
	return len(l.slots)
}

// WaitForDrain blocks until no import holds a slot or ctx is done.
// Used during shutdown so an in-flight import finishes its save.
func (l *ImportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ImportLimiterStatus is a snapshot of the limiter for the status endpoint.
type ImportLimiterStatus struct {
	Active        int      `json:"active"`
	Available     int      `json:"available"`
	MaxConcurrent int      `json:"max_concurrent"`
	Files         []string `json:"files,omitempty"`
}

// Status returns the current limiter state.
func (l *ImportLimiter) Status() ImportLimiterStatus {
	l.mu.Lock()
	files := make([]string, 0, len(l.active))
	for name := range l.active {
		files = append(files, name)
	}
	l.mu.Unlock()
	sort.Strings(files)

	active := len(l.slots)
	return ImportLimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - active,
		MaxConcurrent: cap(l.slots),
		Files:         files,
	}
}
