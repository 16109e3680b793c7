package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
server:
  addr: ":9090"
api:
  base_url: https://api.coingecko.com/api/v3
  api_key: test-key
database:
  host: localhost
  port: 5432
  name: test_db
  user: testuser
  password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.API.BaseURL != "https://api.coingecko.com/api/v3" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "https://api.coingecko.com/api/v3")
	}
	if cfg.API.APIKey != "test-key" {
		t.Errorf("API.APIKey = %q, want %q", cfg.API.APIKey, "test-key")
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "localhost")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
database:
  host: localhost
  name: test_db
  user: testuser
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
database:
  host: localhost
  name: test_db
  user: testuser
  password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want default %q", cfg.Server.Addr, DefaultServerAddr)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("API.BaseURL = %q, want default %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("API.Timeout = %v, want default %v", cfg.API.Timeout, DefaultAPITimeout)
	}
	if cfg.Cache.Backend != DefaultCacheBackend {
		t.Errorf("Cache.Backend = %q, want default %q", cfg.Cache.Backend, DefaultCacheBackend)
	}
	if cfg.Cache.TTL != DefaultCacheTTL {
		t.Errorf("Cache.TTL = %v, want default %v", cfg.Cache.TTL, DefaultCacheTTL)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.RateLimit.MaxRequests != DefaultMaxRequests {
		t.Errorf("RateLimit.MaxRequests = %d, want default %d", cfg.RateLimit.MaxRequests, DefaultMaxRequests)
	}
	if cfg.RateLimit.Window != DefaultRateWindow {
		t.Errorf("RateLimit.Window = %v, want default %v", cfg.RateLimit.Window, DefaultRateWindow)
	}
	if cfg.Prefetch.Days != DefaultPrefetchDays {
		t.Errorf("Prefetch.Days = %d, want default %d", cfg.Prefetch.Days, DefaultPrefetchDays)
	}
	if cfg.Prefetch.MaxHistoryDays != DefaultMaxHistoryDays {
		t.Errorf("Prefetch.MaxHistoryDays = %d, want default %d", cfg.Prefetch.MaxHistoryDays, DefaultMaxHistoryDays)
	}
	if cfg.Health.PingInterval != DefaultPingInterval {
		t.Errorf("Health.PingInterval = %v, want default %v", cfg.Health.PingInterval, DefaultPingInterval)
	}
}

func TestLoadAndValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		yaml := `
database:
  host: localhost
  name: test_db
  user: testuser
  password: testpass
rate_limit:
  max_requests: 120
`
		path := writeTempFile(t, yaml)

		cfg, err := LoadAndValidate(path)
		if err != nil {
			t.Fatalf("LoadAndValidate failed: %v", err)
		}
		if cfg.RateLimit.MaxRequests != 120 {
			t.Errorf("RateLimit.MaxRequests = %d, want %d", cfg.RateLimit.MaxRequests, 120)
		}
		if cfg.RateLimit.Window != time.Minute {
			t.Errorf("RateLimit.Window = %v, want default %v", cfg.RateLimit.Window, time.Minute)
		}
	})

	t.Run("missing database host", func(t *testing.T) {
		yaml := `
database:
  name: test_db
  user: testuser
  password: testpass
`
		path := writeTempFile(t, yaml)

		if _, err := LoadAndValidate(path); err == nil {
			t.Error("expected error for missing database.host, got nil")
		}
	})

	t.Run("redis backend without addr", func(t *testing.T) {
		yaml := `
cache:
  backend: redis
database:
  host: localhost
  name: test_db
  user: testuser
  password: testpass
`
		path := writeTempFile(t, yaml)

		if _, err := LoadAndValidate(path); err == nil {
			t.Error("expected error for missing cache.redis.addr, got nil")
		}
	})

	t.Run("unknown cache backend", func(t *testing.T) {
		yaml := `
cache:
  backend: memcached
database:
  host: localhost
  name: test_db
  user: testuser
  password: testpass
`
		path := writeTempFile(t, yaml)

		if _, err := LoadAndValidate(path); err == nil {
			t.Error("expected error for unknown cache.backend, got nil")
		}
	})

	t.Run("history floor shorter than prefetch window", func(t *testing.T) {
		yaml := `
database:
  host: localhost
  name: test_db
  user: testuser
  password: testpass
prefetch:
  days: 30
  max_history_days: 7
`
		path := writeTempFile(t, yaml)

		if _, err := LoadAndValidate(path); err == nil {
			t.Error("expected error for max_history_days < days, got nil")
		}
	})
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
