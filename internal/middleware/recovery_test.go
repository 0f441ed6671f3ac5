// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestRecovererPanics(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "string", value: "nil map write in section applier"},
		{name: "error", value: errors.New("boom")},
		{name: "integer", value: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			h := RequestID(Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.value)
			})))

			req := httptest.NewRequest(http.MethodPost, "/api/websites", nil)
			req.Header.Set(RequestIDHeader, "6f1c4a8e-2b1d-4c55-9a0e-1d2f3a4b5c6d")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != http.StatusInternalServerError {
				t.Errorf("status: got %d, want 500", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type: got %q, want application/json", ct)
			}
			if !strings.Contains(rr.Body.String(), `"message":"Internal Server Error"`) {
				t.Errorf("body: got %q", rr.Body.String())
			}
			if !strings.Contains(logs.String(), "request_id=6f1c4a8e-2b1d-4c55-9a0e-1d2f3a4b5c6d") {
				t.Errorf("log should carry the request id: %s", logs.String())
			}
		})
	}
}

func TestRecovererReraisesAbort(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Error("ServeHTTP should have panicked")
}

func TestRecovererPassThrough(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Preview-Cache", "HIT")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/websites", nil))

	if rr.Code != http.StatusCreated || rr.Body.String() != "ok" {
		t.Errorf("got %d %q, want 201 ok", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Preview-Cache") != "HIT" {
		t.Error("headers set by the handler should survive")
	}
}
