package config

import "time"

// Config is the root configuration for the aggregator process.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	Cache     CacheConfig     `yaml:"cache"`
	Database  DBConfig        `yaml:"database"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Registry  RegistryConfig  `yaml:"registry"`
	Prefetch  PrefetchConfig  `yaml:"prefetch"`
	Health    HealthConfig    `yaml:"health"`
}

// ServerConfig holds the HTTP edge settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// APIConfig holds origin (CoinGecko) API settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"` // Demo API key, sent as a query parameter
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// CacheConfig selects and configures the cache tier.
type CacheConfig struct {
	Backend string        `yaml:"backend"` // "memory" or "redis"
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig holds the Redis connection for the cache tier.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DBConfig holds the PostgreSQL connection for the persistent store.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RateLimitConfig holds the fixed-window admission settings.
type RateLimitConfig struct {
	MaxRequests int           `yaml:"max_requests"` // Per client, per window
	Window      time.Duration `yaml:"window"`
}

// RegistryConfig holds asset registry refresh settings.
type RegistryConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// PrefetchConfig holds the retention window and startup prefetch settings.
//
// Days is the rolling window the store is assumed to cover: range requests
// starting before it are served from the store without consulting the
// origin. MaxHistoryDays is the validation floor for any requested date.
type PrefetchConfig struct {
	Days           int           `yaml:"days"`
	MaxHistoryDays int           `yaml:"max_history_days"`
	Assets         []string      `yaml:"assets"`
	Concurrency    int           `yaml:"concurrency"`
	Timeout        time.Duration `yaml:"timeout"`
}

// HealthConfig holds origin health-ping settings.
type HealthConfig struct {
	PingInterval time.Duration `yaml:"ping_interval"`
}
