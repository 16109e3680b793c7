package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultServerAddr       = ":8080"
	DefaultBaseURL          = "https://api.coingecko.com/api/v3"
	DefaultAPITimeout       = 10 * time.Second
	DefaultMaxRetries       = 3
	DefaultRetryBackoff     = 1 * time.Second
	DefaultCacheBackend     = "memory"
	DefaultCacheTTL         = 5 * time.Minute
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultMaxRequests      = 60
	DefaultRateWindow       = 1 * time.Minute
	DefaultRefreshInterval  = 6 * time.Hour
	DefaultPrefetchDays     = 30
	DefaultMaxHistoryDays   = 365
	DefaultPrefetchWorkers  = 2
	DefaultPrefetchTimeout  = 2 * time.Minute
	DefaultPingInterval     = 10 * time.Minute
)

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}

	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	// Cache defaults
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCacheBackend
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Rate limit defaults
	if c.RateLimit.MaxRequests == 0 {
		c.RateLimit.MaxRequests = DefaultMaxRequests
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = DefaultRateWindow
	}

	// Registry defaults
	if c.Registry.RefreshInterval == 0 {
		c.Registry.RefreshInterval = DefaultRefreshInterval
	}

	// Prefetch defaults
	if c.Prefetch.Days == 0 {
		c.Prefetch.Days = DefaultPrefetchDays
	}
	if c.Prefetch.MaxHistoryDays == 0 {
		c.Prefetch.MaxHistoryDays = DefaultMaxHistoryDays
	}
	if c.Prefetch.Concurrency == 0 {
		c.Prefetch.Concurrency = DefaultPrefetchWorkers
	}
	if c.Prefetch.Timeout == 0 {
		c.Prefetch.Timeout = DefaultPrefetchTimeout
	}

	// Health defaults
	if c.Health.PingInterval == 0 {
		c.Health.PingInterval = DefaultPingInterval
	}
}
