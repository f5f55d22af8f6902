package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRouterRootLiveness(t *testing.T) {
	r := NewRouter(RouterConfig{DisableLogging: true})
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRouterHealthReturnsJSON(t *testing.T) {
	r := NewRouter(RouterConfig{DisableLogging: true})
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
}

func TestRouterMetricsExposed(t *testing.T) {
	r := NewRouter(RouterConfig{DisableLogging: true})
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected /metrics to be served, got %d", resp.StatusCode)
	}
}

func TestRouterRateLimitsExcessRequests(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Minute})
	defer rl.Stop()
	r := NewRouter(RouterConfig{DisableLogging: true, RateLimiter: rl})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := srv.Client()
	first, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	first.Body.Close()
	if first.StatusCode != http.StatusOK {
		t.Fatalf("expected the first request within burst to succeed, got %d", first.StatusCode)
	}

	second, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	second.Body.Close()
	if second.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected the request beyond burst capacity to be rate-limited, got %d", second.StatusCode)
	}
}
