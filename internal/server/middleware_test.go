package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestAPIKeyAuthStatuses verifies the three auth outcomes: missing key,
// wrong key, and valid key.
func TestAPIKeyAuthStatuses(t *testing.T) {
	handler := APIKeyAuth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name string
		key  string
		want int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusForbidden},
		{"valid key", "secret", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tc.key != "" {
				req.Header.Set("X-API-Key", tc.key)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

// TestRequestLoggingPassesThrough verifies the logging middleware calls the
// next handler and reports its status unchanged.
func TestRequestLoggingPassesThrough(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

// TestStatusWriterDefaultsOK verifies a handler that never calls WriteHeader
// is recorded as 200.
func TestStatusWriterDefaultsOK(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	sw.Write([]byte("ok"))
	if sw.status != http.StatusOK {
		t.Errorf("status = %d, want 200", sw.status)
	}
}

// TestCORSBlocksNothing verifies CORS headers are present on plain requests
// and that preflight never reaches the next handler.
func TestCORSBlocksNothing(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called {
		t.Error("next handler not called for GET")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}

	called = false
	preq := httptest.NewRequest(http.MethodOptions, "/", nil)
	prec := httptest.NewRecorder()
	handler.ServeHTTP(prec, preq)
	if called {
		t.Error("next handler must not run for OPTIONS")
	}
	if prec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", prec.Code)
	}
}
