// Package config provides centralized configuration management for the registry.
// It loads settings from defaults, an optional YAML file and environment
// variables, in that order of precedence, and validates everything on startup
// to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Store    StoreConfig     `yaml:"store"`
	Redis    RedisConfig     `yaml:"redis"`
	Import   ImportConfig    `yaml:"import"`
	Publish  PublishConfig   `yaml:"publish"`
	Rate     RateLimitConfig `yaml:"rate"`
	Security SecurityConfig  `yaml:"security"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `yaml:"host" env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `yaml:"port" env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including in-flight imports (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// StoreConfig selects the registry file and how it is locked.
type StoreConfig struct {
	// Path is the registry file; its extension picks the format (.xlsx, .csv, .db)
	Path string `yaml:"path" env:"STORE_PATH" envAlt:"DATA_PATH" default:"conference_registrations.xlsx"`

	// LockTimeout bounds the wait for the store lock (default: 30s)
	LockTimeout time.Duration `yaml:"lock_timeout" env:"STORE_LOCK_TIMEOUT" default:"30s"`

	// LockBackend is "file" for a marker file next to the registry or "redis"
	LockBackend string `yaml:"lock_backend" env:"STORE_LOCK_BACKEND" default:"file"`
}

// RedisConfig is used when StoreConfig.LockBackend is "redis".
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" default:"0"`

	// LockKey names the Redis lock; desks sharing a registry must agree on it
	LockKey string `yaml:"lock_key" env:"REDIS_LOCK_KEY" default:"conference-registry"`

	// LockTTL bounds how long a crashed holder blocks everyone else (default: 1m)
	LockTTL time.Duration `yaml:"lock_ttl" env:"REDIS_LOCK_TTL" default:"1m"`
}

// ImportConfig holds bulk import settings.
type ImportConfig struct {
	// MaxFileSize is the maximum upload size in bytes (default: 20MB)
	MaxFileSize int64 `yaml:"max_file_size" env:"IMPORT_MAX_FILE_SIZE" default:"20971520"`

	// MaxConcurrent is the number of imports parsed at once (default: 2)
	MaxConcurrent int `yaml:"max_concurrent" env:"IMPORT_MAX_CONCURRENT" default:"2"`

	// MaxWait is how long an import waits for a slot (default: 30s)
	MaxWait time.Duration `yaml:"max_wait" env:"IMPORT_MAX_WAIT" default:"30s"`
}

// PublishConfig controls the background report publisher.
type PublishConfig struct {
	// Enabled starts the publisher with the server (default: false)
	Enabled bool `yaml:"enabled" env:"PUBLISH_ENABLED" default:"false"`

	// Interval is how often reports are published (default: 15m)
	Interval time.Duration `yaml:"interval" env:"PUBLISH_INTERVAL" default:"15m"`

	// S3Bucket receives the report workbook; empty disables the S3 sink
	S3Bucket string `yaml:"s3_bucket" env:"PUBLISH_S3_BUCKET"`
	S3Region string `yaml:"s3_region" env:"PUBLISH_S3_REGION" envAlt:"AWS_REGION" default:"us-east-1"`
	S3Prefix string `yaml:"s3_prefix" env:"PUBLISH_S3_PREFIX" default:"reports"`

	// PostgresURL receives a copy of the participant table; empty disables the sink
	PostgresURL string `yaml:"postgres_url" env:"PUBLISH_POSTGRES_URL"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `yaml:"enabled" env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `yaml:"requests_per_minute" env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// ImportLimit is requests per minute for import endpoints (default: 10)
	ImportLimit int `yaml:"import_limit" env:"RATE_LIMIT_IMPORT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `yaml:"enable_csp" env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the mutating API routes (default: false)
	RequireAPIKey bool `yaml:"require_api_key" env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `yaml:"api_keys" env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format" env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
