// Package server exposes the aggregator over HTTP.
//
// Routes:
//
//	GET  /current-prices/{ids}       latest prices, ids comma-separated
//	GET  /past-price/{id}/{date}     one asset on one day (dd-mm-yyyy)
//	GET  /history/{id}/{from}/{to}   price series between two days
//	GET  /ping                       service and upstream liveness
//	POST /system/clear-cache         drop every cached entry
//	POST /system/clear-database      truncate the durable store
//
// Every request passes through the request-id, access-log and rate-limit
// middleware in that order.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rickgao/crypto-aggregator/internal/errs"
	"github.com/rickgao/crypto-aggregator/internal/model"
)

// Resolver answers price queries through the tiered lookup path.
type Resolver interface {
	CurrentPrices(ctx context.Context, ids []string) ([]model.Asset, error)
	PastPrice(ctx context.Context, id, date string) (model.Asset, error)
	PriceRange(ctx context.Context, id, fromDate, toDate string) ([]model.Asset, error)
}

// Cache is the clearable cache tier.
type Cache interface {
	Clear(ctx context.Context) error
}

// Store is the clearable durable tier.
type Store interface {
	Clear(ctx context.Context) error
}

// Health reports the upstream liveness tracked by the background monitor.
// The ping route reads this instead of hitting the origin, so liveness
// checks cost nothing upstream.
type Health interface {
	Healthy() bool
}

// Limiter admits or rejects a client request within the current window.
type Limiter interface {
	Admit(client string) bool
}

// Server is the HTTP edge.
type Server struct {
	addr     string
	resolver Resolver
	cache    Cache
	store    Store
	health   Health
	limiter  Limiter
	logger   *slog.Logger
	srv      *http.Server
}

// NewServer creates a Server. The limiter may be nil to disable rate
// limiting, which is useful in tests.
func NewServer(addr string, resolver Resolver, cache Cache, store Store, health Health, limiter Limiter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:     addr,
		resolver: resolver,
		cache:    cache,
		store:    store,
		health:   health,
		limiter:  limiter,
		logger:   logger,
	}
}

// Handler builds the routed and middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /current-prices/{ids}", s.handleCurrentPrices)
	mux.HandleFunc("GET /past-price/{id}/{date}", s.handlePastPrice)
	mux.HandleFunc("GET /history/{id}/{from}/{to}", s.handleHistory)
	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("POST /system/clear-cache", s.handleClearCache)
	mux.HandleFunc("POST /system/clear-database", s.handleClearDatabase)

	var h http.Handler = mux
	h = s.rateLimit(h)
	h = s.accessLog(h)
	h = requestID(h)
	return h
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http shutdown failed", "error", err)
		}
	}()

	s.logger.Info("http server starting", "addr", s.addr)
	if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleCurrentPrices(w http.ResponseWriter, r *http.Request) {
	ids := splitIDs(r.PathValue("ids"))

	assets, err := s.resolver.CurrentPrices(r.Context(), ids)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, assets)
}

func (s *Server) handlePastPrice(w http.ResponseWriter, r *http.Request) {
	asset, err := s.resolver.PastPrice(r.Context(), r.PathValue("id"), r.PathValue("date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, asset)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	assets, err := s.resolver.PriceRange(r.Context(), r.PathValue("id"), r.PathValue("from"), r.PathValue("to"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, assets)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	upstream := "ok"
	if !s.health.Healthy() {
		upstream = "unreachable"
	}
	s.writeJSON(w, map[string]string{"status": "ok", "upstream": upstream})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.Clear(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("cache cleared", "request_id", requestIDFrom(r.Context()))
	s.writeJSON(w, map[string]string{"status": "cache cleared"})
}

func (s *Server) handleClearDatabase(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("database cleared", "request_id", requestIDFrom(r.Context()))
	s.writeJSON(w, map[string]string{"status": "database cleared"})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// statusFromError maps the error taxonomy onto HTTP statuses.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidRequest),
		errors.Is(err, errs.ErrInvalidDateFormat),
		errors.Is(err, errs.ErrDateOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidIdentifier):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrUpstreamUnavailable),
		errors.Is(err, errs.ErrMalformedPayload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// splitIDs splits a comma-separated id segment, dropping empty parts.
func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
