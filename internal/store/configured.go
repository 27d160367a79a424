package store

import (
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/register/internal/config"
	"github.com/JonMunkholm/register/internal/lock"
)

// OpenConfigured opens the registry named by cfg.Store. With the "redis" lock
// backend the store owns the Redis client and closes it on Close.
func OpenConfigured(cfg *config.Config, opts ...Option) (*Store, error) {
	base := []Option{WithLockTimeout(cfg.Store.LockTimeout)}

	var client *redis.Client
	if strings.EqualFold(cfg.Store.LockBackend, "redis") {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		base = append(base, WithLocker(lock.NewRedisLock(client, cfg.Redis.LockKey, cfg.Redis.LockTTL)))
	}

	s, err := Open(cfg.Store.Path, append(base, opts...)...)
	if err != nil {
		if client != nil {
			client.Close()
		}
		return nil, fmt.Errorf("open registry %s: %w", cfg.Store.Path, err)
	}
	if client != nil {
		s.closers = append(s.closers, client.Close)
	}
	return s, nil
}
