// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for lockout tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLoginProtection(t *testing.T, maxAttempts int, lockout, window time.Duration) (*LoginProtection, *fakeClock) {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	t.Cleanup(lp.Stop)

	clock := &fakeClock{t: time.Date(2024, 4, 5, 12, 0, 0, 0, time.UTC)}
	lp.now = clock.now
	return lp, clock
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	defer lp.Stop()

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5 (default)", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m (default)", lp.lockoutDuration)
	}
	if lp.attemptWindow != 15*time.Minute {
		t.Errorf("attemptWindow = %v, want 15m (default)", lp.attemptWindow)
	}

	lp.Stop() // second call must not panic
}

func TestLoginProtectionIsAccountLocked(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 3, time.Minute, time.Hour)
	email := "test@example.com"

	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("Account should not be locked initially")
	}

	for i := 0; i < 3; i++ {
		lp.RecordFailedAttempt(email)
	}

	locked, remaining := lp.IsAccountLocked(email)
	if !locked {
		t.Error("Account should be locked after max failed attempts")
	}
	if remaining != time.Minute {
		t.Errorf("remaining = %v, want 1m", remaining)
	}

	// Email matching is case-insensitive.
	if locked, _ := lp.IsAccountLocked("  TEST@example.com "); !locked {
		t.Error("lockout should apply regardless of email case")
	}

	clock.advance(time.Minute + time.Second)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("Account should be unlocked after lockout expires")
	}
}

func TestLoginProtectionRecordFailedAttempt(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 3, time.Minute, time.Hour)
	email := "nobody@example.com"

	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("First attempt should not lock account")
	}
	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("Second attempt should not lock account")
	}
	locked, duration := lp.RecordFailedAttempt(email)
	if !locked {
		t.Error("Third attempt should lock account")
	}
	if duration != time.Minute {
		t.Errorf("Lock duration = %v, want 1m", duration)
	}
}

func TestLoginProtectionRecordSuccessfulLogin(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 3, time.Minute, time.Hour)
	email := "test@example.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	if remaining := lp.GetRemainingAttempts(email); remaining != 3 {
		t.Errorf("GetRemainingAttempts() = %d, want 3", remaining)
	}
}

func TestLoginProtectionGetRemainingAttempts(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 5, time.Minute, time.Hour)
	email := "test@example.com"

	if remaining := lp.GetRemainingAttempts(email); remaining != 5 {
		t.Errorf("GetRemainingAttempts() = %d, want 5", remaining)
	}

	lp.RecordFailedAttempt(email)
	if remaining := lp.GetRemainingAttempts(email); remaining != 4 {
		t.Errorf("GetRemainingAttempts() = %d, want 4", remaining)
	}

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	if remaining := lp.GetRemainingAttempts(email); remaining != 2 {
		t.Errorf("GetRemainingAttempts() = %d, want 2", remaining)
	}
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 2, 10*time.Hour, 100*time.Hour)
	email := "test@example.com"

	want := []time.Duration{10 * time.Hour, 20 * time.Hour, maxLockout, maxLockout}
	for i, w := range want {
		lp.RecordFailedAttempt(email)
		_, d := lp.RecordFailedAttempt(email)
		if d != w {
			t.Errorf("lockout %d = %v, want %v", i+1, d, w)
		}
		clock.advance(d + time.Second)
	}
}

func TestLoginProtectionAttemptWindowReset(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 5, time.Minute, time.Minute)
	email := "test@example.com"

	lp.RecordFailedAttempt(email)
	if remaining := lp.GetRemainingAttempts(email); remaining != 4 {
		t.Errorf("GetRemainingAttempts() = %d, want 4", remaining)
	}

	clock.advance(2 * time.Minute)
	if remaining := lp.GetRemainingAttempts(email); remaining != 5 {
		t.Errorf("GetRemainingAttempts() after window = %d, want 5", remaining)
	}

	lp.cleanupStaleEntries()
	lp.attemptsMu.RLock()
	n := len(lp.failedAttempts)
	lp.attemptsMu.RUnlock()
	if n != 0 {
		t.Errorf("stale entries = %d, want 0", n)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"192.168.1.1:12345", "192.168.1.1"},
		{"[::1]:8080", "::1"},
		{"10.0.0.7", "10.0.0.7"},
	}

	for _, tt := range tests {
		t.Run(tt.remoteAddr, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	defer lp.Stop()

	wrapped := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method string) int {
		req := httptest.NewRequest(method, "/login", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := send(http.MethodPost); code != http.StatusOK {
			t.Fatalf("POST %d status = %d, want 200", i+1, code)
		}
	}
	if code := send(http.MethodPost); code != http.StatusTooManyRequests {
		t.Errorf("POST over burst status = %d, want 429", code)
	}
	if code := send(http.MethodGet); code != http.StatusOK {
		t.Errorf("GET status = %d, want 200 (not rate limited)", code)
	}
}

func TestLimiterCache(t *testing.T) {
	lc := newLimiterCache[string](1, 1)

	if lc.get("a") != lc.get("a") {
		t.Error("get should return the same limiter for a key")
	}
	lc.get("b")
	if lc.clearIfExceeds(5) {
		t.Error("clearIfExceeds should not clear a small cache")
	}
	if !lc.clearIfExceeds(1) || lc.len() != 0 {
		t.Error("clearIfExceeds should clear a cache above the limit")
	}
}
