package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rickgao/polymarket-clob/internal/config"
	"github.com/rickgao/polymarket-clob/internal/poller"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		db         fakePinger
		wantCode   int
		wantStatus string
	}{
		{"healthy", fakePinger{}, http.StatusOK, "healthy"},
		{"database down", fakePinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHealth(tt.db, discardLogger())
			h.add("writer", func() any { return map[string]int{"inserts": 3} })

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}

			var report struct {
				Status     string                    `json:"status"`
				Components map[string]map[string]int `json:"components"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if report.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", report.Status, tt.wantStatus)
			}
			if report.Components["writer"]["inserts"] != 3 {
				t.Errorf("components = %v", report.Components)
			}
		})
	}
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	h := newHealth(fakePinger{}, discardLogger())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status code = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHealth_RecoversPanics(t *testing.T) {
	h := newHealth(fakePinger{}, discardLogger())
	h.add("broken", func() any { panic("stats unavailable") })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status code = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestAssetsEndpoint(t *testing.T) {
	h := newHealth(fakePinger{}, discardLogger())
	h.setAssets(poller.StaticAssets{"111", "222"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets", nil))

	var body struct {
		Count  int      `json:"count"`
		Assets []string `json:"assets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Count != 2 || body.Assets[1] != "222" {
		t.Errorf("body = %+v, want 2 assets", body)
	}
}

func TestVersionEndpoint(t *testing.T) {
	h := newHealth(fakePinger{}, discardLogger())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	if !strings.HasPrefix(rec.Body.String(), "dev (unknown)") {
		t.Errorf("body = %q, want version string", rec.Body.String())
	}
}

func TestStreamConfig(t *testing.T) {
	cfg := &config.Config{
		API: config.APIConfig{WSURL: "wss://example.test/ws/market"},
		Stream: config.StreamConfig{
			PingInterval:       5 * time.Second,
			PingTimeout:        20 * time.Second,
			ReconnectBaseDelay: time.Second,
			ReconnectMaxDelay:  time.Minute,
		},
	}

	sc := streamConfig(cfg)
	if sc.Client.URL != "wss://example.test/ws/market" {
		t.Errorf("URL = %q", sc.Client.URL)
	}
	if sc.Client.PingInterval != 5*time.Second || sc.Client.PingTimeout != 20*time.Second {
		t.Errorf("ping = %v/%v, want 5s/20s", sc.Client.PingInterval, sc.Client.PingTimeout)
	}
	if sc.ReconnectBaseWait != time.Second || sc.ReconnectMaxWait != time.Minute {
		t.Errorf("reconnect = %v/%v, want 1s/1m", sc.ReconnectBaseWait, sc.ReconnectMaxWait)
	}
	if sc.BookBufferSize <= 0 {
		t.Errorf("BookBufferSize = %d, want default", sc.BookBufferSize)
	}
}

func TestNewDecoder(t *testing.T) {
	cfg := &config.Config{Decode: config.DecodeConfig{Strict: true}}
	if !newDecoder(cfg, discardLogger()).Strict() {
		t.Error("Strict() = false, want true")
	}
}
