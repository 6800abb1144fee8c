package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"go.uber.org/zap"

	"github.com/fleetlens-io/fleetlens-engine/pkg/config"
)

func newHealthMux() *http.ServeMux {
	cfg := &config.Config{
		Version: "test-version",
		Env:     "test",
	}
	mux := http.NewServeMux()
	NewHealthHandler(cfg, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestHealthHandler_Health(t *testing.T) {
	mux := newHealthMux()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected body %q, got %q", "ok", rec.Body.String())
	}
}

func TestHealthHandler_Ping(t *testing.T) {
	mux := newHealthMux()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp PingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status %q, got %q", "ok", resp.Status)
	}
	if resp.Version != "test-version" {
		t.Errorf("expected version %q, got %q", "test-version", resp.Version)
	}
	if resp.Service != "fleetlens-engine" {
		t.Errorf("expected service %q, got %q", "fleetlens-engine", resp.Service)
	}
	if resp.GoVersion != runtime.Version() {
		t.Errorf("expected go version %q, got %q", runtime.Version(), resp.GoVersion)
	}
	if resp.Environment != "test" {
		t.Errorf("expected environment %q, got %q", "test", resp.Environment)
	}
}

func TestHealthHandler_Ping_MethodNotAllowed(t *testing.T) {
	mux := newHealthMux()

	req := httptest.NewRequest(http.MethodPost, "/ping", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
