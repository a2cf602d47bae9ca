// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/testutil"
	"github.com/olegiv/oblog/internal/version"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func healthRequest(t *testing.T, h *HealthHandler, target string, signedIn bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if signedIn {
		req = req.WithContext(middleware.WithUser(req.Context(), *testUser))
	}
	w := httptest.NewRecorder()
	h.Health(w, req)
	return w
}

func TestHealthHandler_Health_Public(t *testing.T) {
	h := NewHealthHandler(testutil.TestDB(t), version.Info{Version: "1.2.3"})

	w := healthRequest(t, h, "/health", false)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	var raw map[string]any
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw["status"] != "healthy" {
		t.Errorf("status = %v; want healthy", raw["status"])
	}
	if len(raw) != 1 {
		t.Errorf("public response exposes extra fields: %v", raw)
	}
}

func TestHealthHandler_Health_SignedIn(t *testing.T) {
	h := NewHealthHandler(fakePinger{}, version.Info{Version: "1.2.3", GitCommit: "abc"})

	w := healthRequest(t, h, "/health", true)

	var status HealthStatus
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("Status = %q; want healthy", status.Status)
	}
	if status.Version.Version != "1.2.3" {
		t.Errorf("Version = %q; want 1.2.3", status.Version.Version)
	}
	if status.Checks["database"].Status != "healthy" {
		t.Errorf("database check = %+v", status.Checks["database"])
	}
	if status.System != nil {
		t.Error("System should be omitted without verbose=true")
	}

	w = healthRequest(t, h, "/health?verbose=true", true)
	status = HealthStatus{}
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.System == nil || status.System.GoVersion == "" {
		t.Errorf("System = %+v; want populated", status.System)
	}
}

func TestHealthHandler_Health_Unhealthy(t *testing.T) {
	h := NewHealthHandler(fakePinger{err: errors.New("disk I/O error")}, version.Info{})

	w := healthRequest(t, h, "/health", false)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d; want %d", w.Code, http.StatusServiceUnavailable)
	}
	var public HealthStatusPublic
	if err := json.NewDecoder(w.Body).Decode(&public); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if public.Status != "unhealthy" {
		t.Errorf("Status = %q; want unhealthy", public.Status)
	}

	w = healthRequest(t, h, "/health", true)
	var status HealthStatus
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := status.Checks["database"].Message; got != "disk I/O error" {
		t.Errorf("database message = %q; want the ping error", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{5 << 30, "5.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
