package coingecko

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com", "test-key")

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.apiKey != "test-key" {
			t.Errorf("apiKey = %q, want %q", c.apiKey, "test-key")
		}
		if c.httpClient.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 10*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with options", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("https://api.example.com", "",
			WithTimeout(5*time.Second),
			WithRetries(5, 2*time.Second),
			WithLogger(logger),
		)
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
		if c.retryBackoff != 2*time.Second {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 2*time.Second)
		}
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com", "", WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})
}

func TestOriginError(t *testing.T) {
	t.Run("Error method", func(t *testing.T) {
		err := &OriginError{
			StatusCode: 404,
			Message:    "Not Found",
			Body:       []byte(`{"error": "coin not found"}`),
		}
		expected := "coingecko api error 404: Not Found"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("IsRetryable", func(t *testing.T) {
		tests := []struct {
			code string
			err  *OriginError
			want bool
		}{
			{code: "500", err: &OriginError{StatusCode: 500}, want: true},
			{code: "503", err: &OriginError{StatusCode: 503}, want: true},
			{code: "429", err: &OriginError{StatusCode: 429}, want: true},
			{code: "404", err: &OriginError{StatusCode: 404}, want: false},
			{code: "400", err: &OriginError{StatusCode: 400}, want: false},
		}
		for _, tt := range tests {
			if got := tt.err.IsRetryable(); got != tt.want {
				t.Errorf("IsRetryable() for %s = %v, want %v", tt.code, got, tt.want)
			}
		}
	})
}

func TestFetch(t *testing.T) {
	t.Run("returns raw body on success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/simple/price" {
				t.Errorf("path = %q, want %q", r.URL.Path, "/simple/price")
			}
			w.Write([]byte(`{"bitcoin":{"usd":50000}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "")
		body, err := c.Fetch(context.Background(), "/simple/price")
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if string(body) != `{"bitcoin":{"usd":50000}}` {
			t.Errorf("body = %q, want raw payload", body)
		}
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", WithRetries(3, time.Millisecond))
		_, err := c.Fetch(context.Background(), "/coins/list")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if got := calls.Load(); got != 1 {
			t.Errorf("calls = %d, want 1", got)
		}
	})

	t.Run("retries server errors until success", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", WithRetries(3, time.Millisecond))
		body, err := c.Fetch(context.Background(), "/coins/list")
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if string(body) != "[]" {
			t.Errorf("body = %q, want %q", body, "[]")
		}
		if got := calls.Load(); got != 3 {
			t.Errorf("calls = %d, want 3", got)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "", WithRetries(2, time.Millisecond))
		_, err := c.Fetch(context.Background(), "/ping")
		if err == nil {
			t.Fatal("expected error after retries exhausted, got nil")
		}
		if got := calls.Load(); got != 3 {
			t.Errorf("calls = %d, want 3 (initial + 2 retries)", got)
		}
	})

	t.Run("respects context cancellation during backoff", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		c := NewClient(srv.URL, "", WithRetries(5, time.Hour))

		done := make(chan error, 1)
		go func() {
			_, err := c.Fetch(ctx, "/ping")
			done <- err
		}()

		cancel()
		select {
		case err := <-done:
			if err == nil {
				t.Error("expected context error, got nil")
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Fetch did not return after cancellation")
		}
	})
}

func TestCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/list" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/coins/list")
		}
		if got := r.URL.Query().Get("x_cg_demo_api_key"); got != "demo-key" {
			t.Errorf("x_cg_demo_api_key = %q, want %q", got, "demo-key")
		}
		w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "demo-key")
	body, err := c.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	if len(body) == 0 {
		t.Error("expected non-empty catalog payload")
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ping" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/ping")
		}
		w.Write([]byte(`{"gecko_says":"(V3) To the Moon!"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	body, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if string(body) != `{"gecko_says":"(V3) To the Moon!"}` {
		t.Errorf("body = %q, want ping payload", body)
	}
}
