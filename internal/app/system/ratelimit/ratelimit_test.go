// internal/app/system/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowAndReset(t *testing.T) {
	l := New(2, time.Minute)

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow("k") {
		t.Error("third request in the window should be blocked")
	}
	if !l.Allow("other") {
		t.Error("a different key has its own window")
	}

	l.Reset("k")
	if !l.Allow("k") {
		t.Error("request after Reset should be allowed")
	}
}

func TestLoginLimiter_EmailAxis(t *testing.T) {
	ll := &LoginLimiter{
		ipLimiter:    New(100, time.Minute),
		emailLimiter: New(2, time.Minute),
	}

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "203.0.113.9:4411"

	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(req, "User@Example.com"); !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	// Case and whitespace variants of the email share one window.
	if ok, reason := ll.Check(req, "  user@example.com "); ok || reason == "" {
		t.Error("third attempt for the same account should be blocked with a reason")
	}

	ll.ResetEmail("user@example.com")
	if ok, _ := ll.Check(req, "user@example.com"); !ok {
		t.Error("attempt after ResetEmail should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.7:1234"
	if got := ClientIP(req); got != "198.51.100.7" {
		t.Errorf("ClientIP = %q, want RemoteAddr host", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.5")
	if got := ClientIP(req); got != "203.0.113.1" {
		t.Errorf("ClientIP = %q, want first X-Forwarded-For entry", got)
	}
}
