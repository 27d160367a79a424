package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/register/internal/config"
	"github.com/JonMunkholm/register/internal/lock"
)

func TestOpenConfigured_FileBackend(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{
		Path:        filepath.Join(t.TempDir(), "desk.csv"),
		LockTimeout: 2 * time.Second,
		LockBackend: "file",
	}}

	s, err := OpenConfigured(cfg)
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &lock.FileLock{}, s.locker)
	assert.Equal(t, 2*time.Second, s.lockTimeout)
	require.NoError(t, s.Save(context.Background(), sampleTable()))
}

func TestOpenConfigured_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		Store: config.StoreConfig{
			Path:        filepath.Join(t.TempDir(), "desk.xlsx"),
			LockTimeout: time.Second,
			LockBackend: "redis",
		},
		Redis: config.RedisConfig{Addr: mr.Addr(), LockKey: "conf-2026", LockTTL: time.Minute},
	}

	s, err := OpenConfigured(cfg)
	require.NoError(t, err)

	rl, ok := s.locker.(*lock.RedisLock)
	require.True(t, ok, "locker should be a RedisLock, got %T", s.locker)
	assert.Equal(t, "lock:conf-2026", rl.Key())

	require.NoError(t, s.Save(context.Background(), sampleTable()))
	assert.False(t, mr.Exists("lock:conf-2026"), "lock should be released after save")

	require.NoError(t, s.Close())
}

func TestOpenConfigured_BadExtension(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Path: "registry.json", LockBackend: "file"}}

	_, err := OpenConfigured(cfg)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
