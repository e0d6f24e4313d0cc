package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rickgao/polymarket-clob/internal/version"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type assetLister interface {
	Assets() []string
}

// health serves /health, /assets and /version.
type health struct {
	db     pinger
	logger *slog.Logger

	mu     sync.Mutex
	stats  map[string]func() any
	assets assetLister

	handler http.Handler
}

func newHealth(db pinger, logger *slog.Logger) *health {
	h := &health{
		db:     db,
		logger: logger,
		stats:  make(map[string]func() any),
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.serveHealth).Methods(http.MethodGet)
	r.HandleFunc("/assets", h.serveAssets).Methods(http.MethodGet)
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(version.String() + "\n"))
	}).Methods(http.MethodGet)

	h.handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)(r)
	return h
}

// add registers a component whose stats are reported by /health.
func (h *health) add(name string, stats func() any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats[name] = stats
}

// setAssets sets the list served by /assets.
func (h *health) setAssets(a assetLister) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.assets = a
}

func (h *health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

type healthReport struct {
	Status     string         `json:"status"`
	Database   string         `json:"database"`
	Error      string         `json:"error,omitempty"`
	Components map[string]any `json:"components"`
}

func (h *health) serveHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	report := healthReport{
		Status:     "healthy",
		Database:   "connected",
		Components: make(map[string]any),
	}

	if err := h.db.Ping(ctx); err != nil {
		report.Status = "unhealthy"
		report.Database = "disconnected"
		report.Error = err.Error()
	}

	h.collect(report.Components)

	code := http.StatusOK
	if report.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(w, code, report)
}

// collect calls every registered stats func in name order.
func (h *health) collect(into map[string]any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.stats))
	for name := range h.stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		into[name] = h.stats[name]()
	}
}

func (h *health) serveAssets(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	a := h.assets
	h.mu.Unlock()

	assets := []string{}
	if a != nil {
		assets = a.Assets()
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(assets),
		"assets": assets,
	})
}

func (h *health) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response", "error", err)
	}
}
