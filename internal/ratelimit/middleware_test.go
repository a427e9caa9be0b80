package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestHandlerMiddlewareEnforcesLimit(t *testing.T) {
	handler := Handler{
		Limiter: NewMemory(time.Minute, 1),
		Key:     func(*http.Request) string { return "static" },
	}
	counted := handler.Middleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	rr1 := httptest.NewRecorder()
	counted.ServeHTTP(rr1, req.Clone(req.Context()))
	if rr1.Code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", rr1.Code)
	}

	rr2 := httptest.NewRecorder()
	counted.ServeHTTP(rr2, req.Clone(req.Context()))
	if rr2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on second request, got %d", rr2.Code)
	}
	if rr2.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("unexpected limit header: %q", rr2.Header().Get("X-RateLimit-Limit"))
	}
	if rr2.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestHandlerMiddlewareSeparatesClients(t *testing.T) {
	counted := Handler{Limiter: NewMemory(time.Minute, 1), Key: ByClientIP}.Middleware(okHandler())
	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		counted.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected %s to be allowed, got %d", addr, rr.Code)
		}
	}
}

func TestRedisLimiterSharesCounters(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	first, err := NewRedis(client, "ratelimit", time.Minute, 1)
	if err != nil {
		t.Fatalf("new redis limiter: %v", err)
	}
	second, err := NewRedis(client, "ratelimit", time.Minute, 1)
	if err != nil {
		t.Fatalf("new redis limiter: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	if res, err := first.Allow(req.Context(), "shared"); err != nil || !res.Allowed {
		t.Fatalf("expected first call allowed, got %+v %v", res, err)
	}
	if res, err := second.Allow(req.Context(), "shared"); err != nil || res.Allowed {
		t.Fatalf("expected second replica to see the limit, got %+v %v", res, err)
	}
}

func TestHandlerMiddlewareOnError(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = client.Close() }()
	lim, err := NewRedis(client, "ratelimit", time.Minute, 1)
	if err != nil {
		t.Fatalf("new redis limiter: %v", err)
	}
	mr.Close()

	called := false
	counted := Handler{
		Limiter: lim,
		Key:     func(*http.Request) string { return "err" },
		OnError: func(error) { called = true },
	}.Middleware(okHandler())

	rr := httptest.NewRecorder()
	counted.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected handler to proceed on error, got %d", rr.Code)
	}
	if !called {
		t.Fatal("expected OnError callback to be invoked")
	}
}

func TestNilLimiterAllows(t *testing.T) {
	var lim *Limiter
	res, err := lim.Allow(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "k")
	if err != nil || !res.Allowed {
		t.Fatalf("expected nil limiter to allow, got %+v %v", res, err)
	}
}
