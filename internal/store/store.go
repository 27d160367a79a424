package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/register/internal/core"
	"github.com/JonMunkholm/register/internal/lock"
	"github.com/JonMunkholm/register/internal/logging"
)

// DefaultPath is the registry file used when none is configured.
const DefaultPath = "conference_registrations.xlsx"

var (
	// ErrUnsupportedFormat is returned by Open for an unknown file extension.
	ErrUnsupportedFormat = errors.New("unsupported store format")

	// ErrLockTimeout is returned when the store lock cannot be taken in time.
	ErrLockTimeout = lock.ErrTimeout
)

// codec reads and writes one backing format.
type codec interface {
	// read returns the stored table. exists is false when nothing has been
	// saved yet.
	read(ctx context.Context) (raw core.RawTable, exists bool, err error)
	write(ctx context.Context, t core.Table) error
	close() error
}

// Store is a handle on one registry file. It implements core.Repository.
// Several handles, in one process or many, may share the same file.
type Store struct {
	path        string
	codec       codec
	locker      lock.Locker
	lockTimeout time.Duration
	clock       func() time.Time
	closers     []func() error

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithLocker replaces the default file lock, e.g. with a lock.RedisLock.
func WithLocker(l lock.Locker) Option {
	return func(s *Store) { s.locker = l }
}

// WithLockTimeout bounds how long an operation waits for the lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) { s.lockTimeout = d }
}

// WithClock sets the clock used to stamp rows missing Registered_On.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.clock = now }
}

// Open returns a Store for path. Nothing is read until the first Load.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}

	s := &Store{
		path:        path,
		lockTimeout: lock.DefaultTimeout,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.locker == nil {
		s.locker = lock.NewFileLock(LockPath(path))
	}

	c, err := newCodec(path)
	if err != nil {
		return nil, err
	}
	s.codec = c
	return s, nil
}

func newCodec(path string) (codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return &xlsxCodec{path: path}, nil
	case ".csv":
		return &csvCodec{path: path}, nil
	case ".db", ".sqlite", ".sqlite3":
		return openSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LockPath returns the marker file guarding path: the same name with the
// extension replaced by .lock.
func LockPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".lock"
}

// Path returns the registry file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases resources held by the backing format and lock backend.
func (s *Store) Close() error {
	errs := []error{s.codec.close()}
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Load returns the normalized registry, or an empty table if nothing has
// been saved yet.
func (s *Store) Load(ctx context.Context) (core.Table, error) {
	var t core.Table
	err := s.withLock(ctx, func() error {
		var err error
		t, err = s.load(ctx)
		return err
	})
	return t, err
}

// Save normalizes t and replaces the stored registry with it.
func (s *Store) Save(ctx context.Context, t core.Table) error {
	return s.withLock(ctx, func() error {
		return s.save(ctx, t)
	})
}

// Update runs load, fn and save under one lock acquisition. When fn reports
// no change, or fails, nothing is written.
func (s *Store) Update(ctx context.Context, fn core.UpdateFunc) error {
	return s.withLock(ctx, func() error {
		t, err := s.load(ctx)
		if err != nil {
			return err
		}

		next, changed, err := fn(t)
		if err != nil || !changed {
			return err
		}
		return s.save(ctx, next)
	})
}

// withLock serializes fn against every other handle on the same file.
func (s *Store) withLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := lock.Acquire(ctx, s.locker, s.lockTimeout); err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}
	defer func() {
		// Unlock even when ctx is already cancelled.
		if err := s.locker.Release(context.WithoutCancel(ctx)); err != nil {
			logging.FromContext(ctx).Warn("release store lock", "path", s.path, "error", err)
		}
	}()

	return fn()
}

func (s *Store) load(ctx context.Context) (core.Table, error) {
	raw, exists, err := s.codec.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry %s: %w", s.path, err)
	}
	if !exists {
		return core.Table{}, nil
	}
	return core.Normalize(raw, s.clock()), nil
}

func (s *Store) save(ctx context.Context, t core.Table) error {
	start := time.Now()
	t = core.NormalizeTable(t, s.clock())

	if err := s.codec.write(ctx, t); err != nil {
		return fmt.Errorf("save registry %s: %w", s.path, err)
	}

	logging.FromContext(ctx).Debug("registry saved",
		"path", s.path,
		"rows", len(t),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
