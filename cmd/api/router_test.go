package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/checkout"
	"github.com/noah-isme/toko-pricing/internal/pricebook"
	"github.com/noah-isme/toko-pricing/internal/ratelimit"
)

func testRouter(limiter *ratelimit.Limiter) http.Handler {
	return newRouter(routerConfig{
		Logger:         zerolog.Nop(),
		Service:        checkout.NewService(pricebook.Default(), nil, zerolog.Nop()),
		Limiter:        limiter,
		AllowedOrigins: []string{"*"},
		BodyLimit:      1024,
	})
}

func TestRouterCheckout(t *testing.T) {
	srv := httptest.NewServer(testRouter(nil))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/checkout", "application/json", strings.NewReader(`{"skus":"AAABB"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	var body struct {
		Data checkout.Quote `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, int64(175), body.Data.Total)
}

func TestRouterCatalogAndHealth(t *testing.T) {
	h := testRouter(nil)

	cases := []struct {
		path string
		code int
	}{
		{"/api/v1/products", http.StatusOK},
		{"/api/v1/products/A", http.StatusOK},
		{"/api/v1/products/Z", http.StatusNotFound},
		{"/api/v1/offers", http.StatusOK},
		{"/health/live", http.StatusOK},
		{"/health/ready", http.StatusOK},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		require.Equal(t, tc.code, rec.Code, tc.path)
	}
}

func TestRouterRateLimitsCheckout(t *testing.T) {
	h := testRouter(ratelimit.NewMemory(time.Minute, 1))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"skus":"A"}`))
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	require.Equal(t, http.StatusOK, send())
	require.Equal(t, http.StatusTooManyRequests, send())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/offers", nil))
	require.Equal(t, http.StatusOK, rec.Code, "catalog routes are not rate limited")
}
