package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowsBurstThenRejects(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Capacity: 3, RefillRate: 3, RefillPeriod: time.Hour})
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/api/v1/events", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d rejected with %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest("GET", "/api/v1/events", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("over-limit request returned %d, want 429", rec.Code)
	}
}

func TestRateLimiterKeysByClient(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Capacity: 1, RefillRate: 1, RefillPeriod: time.Hour})

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first request for client A rejected")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("second request for client A allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("client B starved by client A")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Capacity: 1, RefillRate: 1, RefillPeriod: 10 * time.Millisecond})

	if !rl.Allow("c") {
		t.Fatal("initial token missing")
	}
	if rl.Allow("c") {
		t.Fatal("bucket did not empty")
	}
	time.Sleep(25 * time.Millisecond)
	if !rl.Allow("c") {
		t.Error("bucket did not refill")
	}
}

func TestRateLimitConfigDefaults(t *testing.T) {
	api := APIRateLimitConfig(0, 0)
	if api.Capacity != 100 || api.RefillPeriod != time.Minute {
		t.Errorf("unexpected API defaults: %+v", api)
	}
	auth := AuthRateLimitConfig(0, 0)
	if auth.Capacity != 5 || auth.RefillPeriod != time.Minute {
		t.Errorf("unexpected auth defaults: %+v", auth)
	}
}
