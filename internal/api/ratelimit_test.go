package api

import (
	"net/http/httptest"
	"testing"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost", true},
		{"http://localhost:5173", true},
		{"https://localhost:3000", true},
		{"http://127.0.0.1:3000", true},
		{"http://[::1]:3000", true},
		{"", false},
		{"http://localhost.evil.example", false},
		{"http://localhostevil.example", false},
		{"https://example.com", false},
		{"ws://localhost:3000", false},
	}
	for _, tt := range tests {
		if got := IsAllowedOrigin(tt.origin); got != tt.want {
			t.Errorf("IsAllowedOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestWebSocketRateLimiterSlots(t *testing.T) {
	wrl := NewWebSocketRateLimiter(2)

	if !wrl.Allow("10.0.0.1") || !wrl.Allow("10.0.0.1") {
		t.Fatal("slots under the cap were rejected")
	}
	if wrl.Allow("10.0.0.1") {
		t.Error("third connection from one IP exceeded the cap")
	}
	if !wrl.Allow("10.0.0.2") {
		t.Error("cap on one IP leaked to another")
	}

	wrl.Release("10.0.0.1")
	if !wrl.Allow("10.0.0.1") {
		t.Error("released slot not reusable")
	}
}

func TestGetClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/state", nil)
	r.RemoteAddr = "192.0.2.10:54321"

	if got := GetClientIP(r); got != "192.0.2.10" {
		t.Errorf("ip = %q, want the remote address host", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 192.0.2.1")
	if got := GetClientIP(r); got != "203.0.113.7" {
		t.Errorf("ip = %q, want the first forwarded hop", got)
	}
}
